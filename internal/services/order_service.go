// internal/services/order_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yahiawalid23/HEPTA/internal/events"
	"github.com/yahiawalid23/HEPTA/internal/metrics"
	"github.com/yahiawalid23/HEPTA/internal/models"
	"github.com/yahiawalid23/HEPTA/internal/records"
	"github.com/yahiawalid23/HEPTA/internal/utils"
)

const orderDateLayout = "1/2/2006"

type OrderService struct {
	orders    *records.OrderStore
	publisher events.Publisher
	logger    *logrus.Logger
	now       func() time.Time

	idMu   sync.Mutex
	lastID int64
}

type CartItem struct {
	Name  string          `json:"name" validate:"required"`
	Unit  string          `json:"unit"`
	Qty   decimal.Decimal `json:"qty"`
	Price decimal.Decimal `json:"price"`
}

type PlaceOrderRequest struct {
	ClientName    string     `json:"clientName" validate:"required,max=200"`
	ClientCompany string     `json:"clientCompany" validate:"max=200"`
	ClientPhone   string     `json:"clientPhone" validate:"required,max=50"`
	ClientEmail   string     `json:"clientEmail" validate:"omitempty,email"`
	ClientAddress string     `json:"clientAddress" validate:"max=500"`
	Items         []CartItem `json:"items" validate:"required,min=1,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,order_status"`
}

func NewOrderService(orders *records.OrderStore, publisher events.Publisher, logger *logrus.Logger) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{
		orders:    orders,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// PlaceOrder validates a checkout and appends the order.
func (s *OrderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	now := s.now()
	order := models.Order{
		ID:       s.nextID(now),
		Date:     now.Format(orderDateLayout),
		Customer: strings.TrimSpace(req.ClientName),
		Company:  strings.TrimSpace(req.ClientCompany),
		Phone:    strings.TrimSpace(req.ClientPhone),
		Email:    strings.TrimSpace(req.ClientEmail),
		Address:  strings.TrimSpace(req.ClientAddress),
		Items:    RenderItems(req.Items),
		Total:    OrderTotal(req.Items).StringFixed(2),
		Status:   models.OrderStatusPending,
	}

	if err := s.orders.Append(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	metrics.OrdersPlaced.Inc()
	s.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"total":    order.Total,
	}).Info("Order placed")

	s.publish(ctx, events.OrderEvent{
		Type:     events.OrderCreated,
		OrderID:  order.ID,
		Customer: order.Customer,
		Total:    order.Total,
		Status:   string(order.Status),
	})
	return &order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) []models.Order {
	return s.orders.ReadAll(ctx)
}

// UpdateStatus returns records.ErrNotFound for an unknown id.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var previous models.OrderStatus
	order, err := s.orders.PatchOne(ctx, id, func(o *models.Order) {
		previous = o.Status
		o.Status = models.OrderStatus(req.Status)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.OrderEvent{
		Type:     events.OrderStatusChanged,
		OrderID:  order.ID,
		Status:   string(order.Status),
		Previous: string(previous),
	})
	return &order, nil
}

func (s *OrderService) ResetOrders(ctx context.Context) error {
	if err := s.orders.Reset(ctx); err != nil {
		return err
	}
	s.logger.Warn("All orders deleted")
	s.publish(ctx, events.OrderEvent{Type: events.OrdersReset})
	return nil
}

// ExportOrders returns the authoritative orders sheet.
func (s *OrderService) ExportOrders(ctx context.Context) ([]byte, error) {
	return s.orders.Blob(ctx)
}

// nextID returns ORD-<unix ms>, bumped past the previous id when two
// orders land in the same millisecond.
func (s *OrderService) nextID(now time.Time) string {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	ms := now.UnixMilli()
	if ms <= s.lastID {
		ms = s.lastID + 1
	}
	s.lastID = ms
	return fmt.Sprintf("ORD-%d", ms)
}

func (s *OrderService) publish(ctx context.Context, event events.OrderEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_type", event.Type).Warn("Failed to publish order event")
	}
}

// RenderItems flattens cart lines to "{qty} {unit} {name}" joined by ", ".
// A missing unit renders as "pcs".
func RenderItems(items []CartItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		unit := strings.TrimSpace(it.Unit)
		if unit == "" {
			unit = "pcs"
		}
		parts = append(parts, fmt.Sprintf("%s %s %s", it.Qty.String(), unit, strings.TrimSpace(it.Name)))
	}
	return strings.Join(parts, ", ")
}

// OrderTotal sums price times quantity.
func OrderTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(it.Qty))
	}
	return total
}
