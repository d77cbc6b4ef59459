// Package handlers binds HTTP requests to the services and renders the JSON envelope
// {"success": bool, "message"?: string, ...}.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/apperror"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/logging"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/services"
	"github.com/labstack/echo/v4"
)

// Services groups the business services the handlers call.
type Services struct {
	Auth     *services.AuthService
	Accounts *services.AccountService
	Catalog  *services.CatalogService
	Orders   *services.OrderService
	Carousel *services.CarouselService
	Admin    *services.AdminService
}

type Options struct {
	CookieSecure   bool
	TokenTTL       time.Duration
	MaxUploadBytes int64
}

type Handler struct {
	svc  Services
	opts Options
}

func New(svc Services, opts Options) *Handler {
	return &Handler{svc: svc, opts: opts}
}

type envelope map[string]interface{}

func success(c echo.Context, status int, message string, fields envelope) error {
	body := envelope{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range fields {
		body[k] = v
	}
	return c.JSON(status, body)
}

func ok(c echo.Context, fields envelope) error {
	return success(c, http.StatusOK, "", fields)
}

// respondError renders err as a failure envelope. Unexpected errors are logged and
// answered with a generic message.
func respondError(c echo.Context, err error) error {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(c.Request().Context()).Error().Err(err).
			Str("path", c.Path()).
			Msg("request failed")
	}
	return c.JSON(status, envelope{
		"success": false,
		"message": apperror.PublicMessage(err),
	})
}

// ErrorHandler is the echo HTTPErrorHandler. It renders apperrors and echo's own errors
// in the same envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		if he.Code >= http.StatusInternalServerError {
			logging.Ctx(c.Request().Context()).Error().Err(err).Msg("request failed")
		}
		err = c.JSON(he.Code, envelope{"success": false, "message": message})
	} else {
		err = respondError(c, err)
	}
	if err != nil {
		logging.Ctx(c.Request().Context()).Error().Err(err).Msg("failed to write error response")
	}
}

// bind decodes the request body into dst, reporting malformed input as a validation error.
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return apperror.Validation("Invalid request body")
	}
	return nil
}

func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
