package middleware

import (
	"context"
	"strings"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/logging"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/labstack/echo/v4"
)

// TokenCookie is the cookie carrying the session token.
const TokenCookie = "token"

const principalKey = "principal"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Principal, error)
}

// AuthedHandlerFunc is a handler that runs with a resolved caller.
type AuthedHandlerFunc func(c echo.Context, p models.Principal) error

// AuthMiddleware resolves the session token from the token cookie, falling back to a
// Bearer Authorization header, and stores the caller on the echo context. Failures are
// returned as errors for the HTTP error handler to render.
func AuthMiddleware(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			principal, err := authn.Authenticate(req.Context(), tokenFrom(c))
			if err != nil {
				return err
			}

			c.Set(principalKey, principal)
			c.SetRequest(req.WithContext(logging.ContextWithUserID(req.Context(), principal.ID.Hex())))
			return next(c)
		}
	}
}

func tokenFrom(c echo.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	tokenParts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(tokenParts) == 2 && strings.EqualFold(tokenParts[0], "Bearer") {
		return strings.TrimSpace(tokenParts[1])
	}
	return ""
}

// PrincipalFrom returns the caller stored by AuthMiddleware.
func PrincipalFrom(c echo.Context) (models.Principal, bool) {
	p, ok := c.Get(principalKey).(models.Principal)
	return p, ok
}

// WithPrincipal adapts h to an echo handler. It must run behind AuthMiddleware.
func WithPrincipal(h AuthedHandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return echo.ErrUnauthorized
		}
		return h(c, p)
	}
}
