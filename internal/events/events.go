// internal/events/events.go

// Package events publishes order lifecycle events.
package events

import (
	"context"
	"time"
)

const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	OrdersReset        = "orders.reset"
)

// OrderEvent is the payload of every order event. Fields that do not apply
// to the event type are left empty.
type OrderEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id,omitempty"`
	Customer  string    `json:"customer,omitempty"`
	Total     string    `json:"total,omitempty"`
	Status    string    `json:"status,omitempty"`
	Previous  string    `json:"previous_status,omitempty"`
	EventTime time.Time `json:"event_time"`
}

// Publisher delivers order events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
