package handlers

import (
	"net/http"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/services"
	"github.com/labstack/echo/v4"
)

// CreateOrder places an order for the caller's cart. Any client-sent total is ignored.
func (h *Handler) CreateOrder(c echo.Context, p models.Principal) error {
	var in services.CreateOrderInput
	if err := bind(c, &in); err != nil {
		return err
	}

	order, err := h.svc.Orders.Create(c.Request().Context(), p, in)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, "Order created successfully", envelope{
		"orderId": order.ID.Hex(),
		"order":   order,
	})
}

func (h *Handler) GetOrders(c echo.Context, p models.Principal) error {
	orders, err := h.svc.Orders.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return ok(c, envelope{"count": len(orders), "orders": orders})
}

func (h *Handler) CancelOrder(c echo.Context, p models.Principal) error {
	id, err := pathID(c, "order")
	if err != nil {
		return err
	}
	order, err := h.svc.Orders.Cancel(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Order cancelled successfully", envelope{"orderId": order.ID.Hex()})
}

func (h *Handler) MarkDelivered(c echo.Context, p models.Principal) error {
	id, err := pathID(c, "order")
	if err != nil {
		return err
	}
	order, err := h.svc.Orders.MarkDelivered(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Order marked as delivered", envelope{"orderId": order.ID.Hex()})
}

// AdminOrders lists the orders of the user named in the path.
func (h *Handler) AdminOrders(c echo.Context, p models.Principal) error {
	userID, err := pathID(c, "user")
	if err != nil {
		return err
	}
	orders, err := h.svc.Orders.ListForUser(c.Request().Context(), p, userID)
	if err != nil {
		return err
	}
	return ok(c, envelope{"count": len(orders), "orders": orders})
}

// AdvanceOrder moves an order to confirmed or shipped.
func (h *Handler) AdvanceOrder(c echo.Context, p models.Principal) error {
	id, err := pathID(c, "order")
	if err != nil {
		return err
	}
	var in services.AdvanceOrderInput
	if err := bind(c, &in); err != nil {
		return err
	}

	order, err := h.svc.Orders.Advance(c.Request().Context(), p, id, in)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Order status updated", envelope{"order": order})
}
