package handlers

import (
	"net/http"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/services"
	"github.com/labstack/echo/v4"
)

// RegisterCompany stores the seller profile from a multipart form with an optional logo.
func (h *Handler) RegisterCompany(c echo.Context, p models.Principal) error {
	var in services.CompanyInput
	if err := bind(c, &in); err != nil {
		return err
	}
	logo, err := h.optionalImage(c, "logo")
	if err != nil {
		return err
	}

	company, err := h.svc.Accounts.RegisterCompany(c.Request().Context(), p, in, logo)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, "Company registered successfully", envelope{"company": company})
}

func (h *Handler) CompanyDetails(c echo.Context, p models.Principal) error {
	company, err := h.svc.Accounts.Company(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return ok(c, envelope{"company": company})
}

func (h *Handler) SellerProducts(c echo.Context, p models.Principal) error {
	products, err := h.svc.Accounts.SellerProducts(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return ok(c, envelope{"count": len(products), "products": products})
}

func (h *Handler) GetAddresses(c echo.Context, p models.Principal) error {
	addresses, err := h.svc.Accounts.Addresses(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return ok(c, envelope{"addresses": addresses})
}

func (h *Handler) AddAddress(c echo.Context, p models.Principal) error {
	var in services.AddressInput
	if err := bind(c, &in); err != nil {
		return err
	}
	addresses, err := h.svc.Accounts.AddAddress(c.Request().Context(), p, in)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, "Address added successfully", envelope{"addresses": addresses})
}

func (h *Handler) RemoveAddress(c echo.Context, p models.Principal) error {
	id, err := pathID(c, "address")
	if err != nil {
		return err
	}
	addresses, err := h.svc.Accounts.RemoveAddress(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Address removed successfully", envelope{"addresses": addresses})
}

func (h *Handler) SetDefaultAddress(c echo.Context, p models.Principal) error {
	id, err := pathID(c, "address")
	if err != nil {
		return err
	}
	addresses, err := h.svc.Accounts.SetDefaultAddress(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Default address updated", envelope{"addresses": addresses})
}

func (h *Handler) AdminUsers(c echo.Context, p models.Principal) error {
	users, err := h.svc.Admin.Users(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return ok(c, envelope{"count": len(users), "users": users})
}

func (h *Handler) AdminProducts(c echo.Context, p models.Principal) error {
	products, err := h.svc.Admin.Products(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return ok(c, envelope{"count": len(products), "products": products})
}
