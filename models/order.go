package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "cod"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

// orderTransitions lists every allowed edge of the order lifecycle.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

func (s OrderStatus) Cancellable() bool {
	return s.CanTransitionTo(OrderStatusCancelled)
}

type OrderProduct struct {
	Product primitive.ObjectID `bson:"product" json:"product"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	Products      []OrderProduct     `bson:"products" json:"products"`
	Address       primitive.ObjectID `bson:"address" json:"address"` // id within the owner's addresses
	PaymentMethod PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	OrderStatus   OrderStatus        `bson:"orderStatus" json:"orderStatus"`
	TotalAmount   float64            `bson:"totalAmount" json:"totalAmount"`
	DeliveredAt   *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CancelledAt   *time.Time         `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewOrder snapshots the cart into a placed, unpaid order.
func NewOrder(user primitive.ObjectID, cart []primitive.ObjectID, address primitive.ObjectID, method PaymentMethod, total float64, at time.Time) *Order {
	products := make([]OrderProduct, len(cart))
	for i, id := range cart {
		products[i] = OrderProduct{Product: id}
	}
	return &Order{
		ID:            primitive.NewObjectID(),
		User:          user,
		Products:      products,
		Address:       address,
		PaymentMethod: method,
		PaymentStatus: PaymentStatusPending,
		OrderStatus:   OrderStatusPlaced,
		TotalAmount:   total,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}

// Transition moves the order to next, stamping the delivery or cancellation time.
// The order is left untouched when the edge is not allowed.
func (o *Order) Transition(next OrderStatus, at time.Time) error {
	if !o.OrderStatus.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.OrderStatus, next)
	}
	o.OrderStatus = next
	o.UpdatedAt = at
	switch next {
	case OrderStatusDelivered:
		o.DeliveredAt = &at
	case OrderStatusCancelled:
		o.CancelledAt = &at
	}
	return nil
}

// ProductIDs returns the referenced product ids in order.
func (o *Order) ProductIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, len(o.Products))
	for i, p := range o.Products {
		ids[i] = p.Product
	}
	return ids
}

// OrderView is an order with its products and address resolved for display.
type OrderView struct {
	Order
	Customer OrderCustomer   `json:"user"`
	Items    []OrderItemView `json:"products"`
	Address  *Address        `json:"address"`
}

type OrderCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderItemView struct {
	Product *ProductSummary `json:"product"`
}
