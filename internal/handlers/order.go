// internal/handlers/order.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yahiawalid23/HEPTA/internal/i18n"
	"github.com/yahiawalid23/HEPTA/internal/records"
	"github.com/yahiawalid23/HEPTA/internal/services"
	"github.com/yahiawalid23/HEPTA/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// POST /api/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationFailed), err.Error())
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(verrs, lang))
			return
		}
		utils.InternalErrorResponse(c, i18n.KeyStorageError, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderPlaced),
		"order":   order,
		"total":   order.Total,
	})
}

// GET /api/admin/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders := h.orderService.ListOrders(c.Request.Context())
	if !utils.WantsPagination(c) {
		utils.SuccessResponse(c, orders)
		return
	}
	utils.PaginatedResponse(c, utils.Paginate(orders, utils.GetPaginationParams(c)))
}

// PUT /api/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationFailed), err.Error())
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		var verrs validator.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(verrs, lang))
		case errors.Is(err, records.ErrNotFound):
			utils.NotFoundResponse(c, i18n.KeyOrderNotFound)
		default:
			utils.InternalErrorResponse(c, i18n.KeyStorageError, err)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderStatusUpdated),
		"order":   order,
	})
}

// POST /api/admin/orders/reset
func (h *OrderHandler) ResetOrders(c *gin.Context) {
	if err := h.orderService.ResetOrders(c.Request.Context()); err != nil {
		utils.InternalErrorResponse(c, i18n.KeyStorageError, err)
		return
	}
	utils.MessageResponse(c, i18n.KeyOrdersReset)
}
