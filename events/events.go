// Package events publishes order lifecycle events.
package events

import (
	"context"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
)

const (
	OrderCreated   = "order.created"
	OrderConfirmed = "order.confirmed"
	OrderShipped   = "order.shipped"
	OrderDelivered = "order.delivered"
	OrderCancelled = "order.cancelled"
)

// OrderEvent is the message body published for every order status change.
type OrderEvent struct {
	Type          string               `json:"type"`
	OrderID       string               `json:"orderId"`
	UserID        string               `json:"userId"`
	Status        models.OrderStatus   `json:"status"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	TotalAmount   float64              `json:"totalAmount"`
	OccurredAt    time.Time            `json:"occurredAt"`
}

// NewOrderEvent describes order after it reached its current status.
func NewOrderEvent(order *models.Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:          TypeForStatus(order.OrderStatus),
		OrderID:       order.ID.Hex(),
		UserID:        order.User.Hex(),
		Status:        order.OrderStatus,
		PaymentMethod: order.PaymentMethod,
		TotalAmount:   order.TotalAmount,
		OccurredAt:    at,
	}
}

func TypeForStatus(status models.OrderStatus) string {
	if status == models.OrderStatusPlaced {
		return OrderCreated
	}
	return "order." + string(status)
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }
func (NopPublisher) Close() error                             { return nil }
