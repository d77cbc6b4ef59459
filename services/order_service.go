package services

import (
	"context"
	"errors"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/apperror"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/events"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/logging"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/metrics"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/repositories"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateOrderInput struct {
	PaymentMethod models.PaymentMethod `json:"paymentMethod" form:"paymentMethod" validate:"required,oneof=cod card upi"`
}

type AdvanceOrderInput struct {
	Status models.OrderStatus `json:"status" form:"status" validate:"required,oneof=confirmed shipped"`
}

// OrderService runs the order lifecycle: placement from the cart, the owner's cancel and
// delivery confirmation, and the admin's confirm and ship steps.
type OrderService struct {
	orders    repositories.OrderRepository
	users     repositories.UserRepository
	products  repositories.ProductRepository
	publisher events.Publisher
	now       Clock
}

func NewOrderService(orders repositories.OrderRepository, users repositories.UserRepository, products repositories.ProductRepository, publisher events.Publisher) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{
		orders:    orders,
		users:     users,
		products:  products,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create places an order for everything in the caller's cart, shipped to their default
// address, and empties the cart. The total is priced from the current listings.
func (s *OrderService) Create(ctx context.Context, p models.Principal, in CreateOrderInput) (*models.OrderView, error) {
	if in.PaymentMethod == "" {
		return nil, apperror.Validation("paymentMethod is required")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return nil, storeError(ctx, err, "User not found")
	}
	if len(user.Cart) == 0 {
		return nil, apperror.Validation("Cart is empty")
	}
	address, ok := models.DefaultAddress(user.Addresses)
	if !ok {
		return nil, apperror.Validation("No default address found")
	}

	products, err := s.products.FindByIDs(ctx, user.Cart)
	if err != nil {
		return nil, storeError(ctx, err, "Product not found")
	}

	order := models.NewOrder(user.ID, user.Cart, address.ID, in.PaymentMethod, models.OrderTotal(products), s.now())
	if err := s.orders.Place(ctx, order); err != nil {
		return nil, storeError(ctx, err, "User not found")
	}

	s.publish(ctx, order)
	logging.Ctx(ctx).Info().
		Str("order_id", order.ID.Hex()).
		Float64("total", order.TotalAmount).
		Msg("order placed")

	view := buildOrderView(order, user, products)
	return &view, nil
}

// List returns the caller's orders, newest first.
func (s *OrderService) List(ctx context.Context, p models.Principal) ([]models.OrderView, error) {
	return s.listFor(ctx, p.ID)
}

// ListForUser is the admin view of another account's orders.
func (s *OrderService) ListForUser(ctx context.Context, p models.Principal, userID primitive.ObjectID) ([]models.OrderView, error) {
	if err := RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.listFor(ctx, userID)
}

func (s *OrderService) listFor(ctx context.Context, userID primitive.ObjectID) ([]models.OrderView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(ctx, err, "User not found")
	}
	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, storeError(ctx, err, "Order not found")
	}

	var ids []primitive.ObjectID
	for i := range orders {
		ids = append(ids, orders[i].ProductIDs()...)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(ctx, err, "Product not found")
	}

	views := make([]models.OrderView, len(orders))
	for i := range orders {
		views[i] = buildOrderView(&orders[i], user, products)
	}
	return views, nil
}

// MarkDelivered confirms receipt of a shipped order. Only the owner may call it.
func (s *OrderService) MarkDelivered(ctx context.Context, p models.Principal, id primitive.ObjectID) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderStatusDelivered, ownedBy(p, "Unauthorized"), "Order must be shipped first")
}

// Cancel cancels an order that has not shipped yet. Only the owner may call it.
func (s *OrderService) Cancel(ctx context.Context, p models.Principal, id primitive.ObjectID) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderStatusCancelled, ownedBy(p, "Unauthorized to cancel this order"), "Order cannot be cancelled at this stage")
}

// Advance moves an order to confirmed or shipped. Admin only.
func (s *OrderService) Advance(ctx context.Context, p models.Principal, id primitive.ObjectID, in AdvanceOrderInput) (*models.Order, error) {
	if err := RequireAdmin(p); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	authorize := func(*models.Order) error { return nil }
	return s.transition(ctx, id, in.Status, authorize, "Order cannot be moved to "+string(in.Status)+" from its current status")
}

func ownedBy(p models.Principal, message string) func(*models.Order) error {
	return func(order *models.Order) error {
		if order.User != p.ID {
			return apperror.Forbidden("%s", message)
		}
		return nil
	}
}

// transition moves the order to next if the lifecycle allows it from the status it is
// read in. A concurrent status change causes a re-read.
func (s *OrderService) transition(ctx context.Context, id primitive.ObjectID, next models.OrderStatus, authorize func(*models.Order) error, invalid string) (*models.Order, error) {
	var order *models.Order
	err := retryOnConflict(func() error {
		current, err := s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(current); err != nil {
			return err
		}

		at := s.now()
		from := current.OrderStatus
		if err := current.Transition(next, at); err != nil {
			return apperror.InvalidTransition("%s", invalid)
		}
		if err := s.orders.UpdateStatus(ctx, id, from, next, at); err != nil {
			if errors.Is(err, models.ErrInvalidTransition) {
				return apperror.InvalidTransition("%s", invalid)
			}
			return err
		}
		order = current
		return nil
	})
	if err != nil {
		return nil, storeError(ctx, err, "Order not found")
	}

	s.publish(ctx, order)
	logging.Ctx(ctx).Info().
		Str("order_id", order.ID.Hex()).
		Str("status", string(order.OrderStatus)).
		Msg("order status changed")
	return order, nil
}

// publish emits the event for the order's current status. Failures are logged only.
func (s *OrderService) publish(ctx context.Context, order *models.Order) {
	event := events.NewOrderEvent(order, order.UpdatedAt)
	metrics.RecordOrderEvent(event.Type)
	if err := s.publisher.Publish(ctx, event); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("order_id", order.ID.Hex()).
			Str("event", event.Type).
			Msg("failed to publish order event")
	}
}

func buildOrderView(order *models.Order, owner *models.User, products []models.Product) models.OrderView {
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]models.OrderItemView, len(order.Products))
	for i, item := range order.Products {
		if p, ok := byID[item.Product]; ok {
			summary := p.Summary()
			items[i].Product = &summary
		}
	}

	view := models.OrderView{
		Order:    *order,
		Customer: models.OrderCustomer{Name: owner.Name, Email: owner.Email},
		Items:    items,
	}
	if addr, ok := models.FindAddress(owner.Addresses, order.Address); ok {
		view.Address = &addr
	}
	return view
}
