package handlers

import (
	"net/http"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/labstack/echo/v4"
)

func (h *Handler) AddToCart(c echo.Context, p models.Principal) error {
	productID, err := pathID(c, "product")
	if err != nil {
		return err
	}
	if err := h.svc.Accounts.AddToCart(c.Request().Context(), p, productID); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Product added to cart", nil)
}

// GetCart lists the products in the cart.
func (h *Handler) GetCart(c echo.Context, p models.Principal) error {
	products, err := h.svc.Accounts.CartProducts(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return ok(c, envelope{"count": len(products), "products": products})
}

func (h *Handler) RemoveFromCart(c echo.Context, p models.Principal) error {
	productID, err := pathID(c, "product")
	if err != nil {
		return err
	}
	if err := h.svc.Accounts.RemoveFromCart(c.Request().Context(), p, productID); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Product removed from cart", nil)
}

// ToggleWishlist adds the product, or removes it when it is already wishlisted.
func (h *Handler) ToggleWishlist(c echo.Context, p models.Principal) error {
	productID, err := pathID(c, "product")
	if err != nil {
		return err
	}
	added, err := h.svc.Accounts.ToggleWishlist(c.Request().Context(), p, productID)
	if err != nil {
		return err
	}

	message := "Product removed from wishlist"
	if added {
		message = "Product added to wishlist"
	}
	return success(c, http.StatusOK, message, envelope{"wishlisted": added})
}

func (h *Handler) GetWishlist(c echo.Context, p models.Principal) error {
	products, err := h.svc.Accounts.WishlistProducts(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return ok(c, envelope{"count": len(products), "products": products})
}

func (h *Handler) RemoveFromWishlist(c echo.Context, p models.Principal) error {
	productID, err := pathID(c, "product")
	if err != nil {
		return err
	}
	if err := h.svc.Accounts.RemoveFromWishlist(c.Request().Context(), p, productID); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Product removed from wishlist", nil)
}
