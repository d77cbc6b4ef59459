package handlers

import (
	"net/http"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/middleware"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/services"
	"github.com/labstack/echo/v4"
)

type userSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
	IsSeller bool   `json:"isSeller"`
}

func summarize(u *models.User) userSummary {
	return userSummary{
		ID:       u.ID.Hex(),
		Name:     u.Name,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
		IsSeller: u.IsSeller,
	}
}

func (h *Handler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(h.opts.TokenTTL / time.Second),
	})
}

func (h *Handler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

func (h *Handler) Register(c echo.Context) error {
	var in services.RegisterInput
	if err := bind(c, &in); err != nil {
		return err
	}

	session, err := h.svc.Auth.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, session.Token)

	return success(c, http.StatusCreated, "User registered successfully", envelope{
		"user": summarize(session.User),
	})
}

func (h *Handler) Login(c echo.Context) error {
	var in services.LoginInput
	if err := bind(c, &in); err != nil {
		return err
	}

	session, err := h.svc.Auth.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, session.Token)

	return success(c, http.StatusOK, "Login successful", envelope{
		"user": summarize(session.User),
	})
}

func (h *Handler) Logout(c echo.Context, _ models.Principal) error {
	h.clearSessionCookie(c)
	return success(c, http.StatusOK, "Logged out successfully", nil)
}

// MyAccount returns the caller as resolved from the session token.
func (h *Handler) MyAccount(c echo.Context, p models.Principal) error {
	return ok(c, envelope{"user": p})
}

func (h *Handler) Account(c echo.Context, p models.Principal) error {
	user, err := h.svc.Auth.Account(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return ok(c, envelope{"user": user})
}

func (h *Handler) UpdateAccount(c echo.Context, p models.Principal) error {
	var in services.UpdateProfileInput
	if err := bind(c, &in); err != nil {
		return err
	}

	session, err := h.svc.Auth.UpdateProfile(c.Request().Context(), p, in)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, session.Token)

	return success(c, http.StatusOK, "Profile updated successfully", envelope{
		"user": summarize(session.User),
	})
}
