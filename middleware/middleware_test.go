package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/logging"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errBadToken = errors.New("bad token")

type tokenTable map[string]models.Principal

func (t tokenTable) Authenticate(_ context.Context, token string) (models.Principal, error) {
	p, ok := t[token]
	if !ok {
		return models.Principal{}, errBadToken
	}
	return p, nil
}

func TestAuthMiddleware(t *testing.T) {
	alice := models.Principal{ID: primitive.NewObjectID(), Name: "alice"}
	authn := tokenTable{"good": alice}

	handler := AuthMiddleware(authn)(WithPrincipal(func(c echo.Context, p models.Principal) error {
		return c.String(http.StatusOK, p.Name)
	}))

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		wantErr error
	}{
		{
			name: "cookie",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "good"})
			},
		},
		{
			name: "bearer header",
			prepare: func(r *http.Request) {
				r.Header.Set(echo.HeaderAuthorization, "Bearer good")
			},
		},
		{
			name: "cookie wins over header",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "good"})
				r.Header.Set(echo.HeaderAuthorization, "Bearer other")
			},
		},
		{
			name:    "missing token",
			prepare: func(r *http.Request) {},
			wantErr: errBadToken,
		},
		{
			name: "unknown token",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "forged"})
			},
			wantErr: errBadToken,
		},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()

			err := handler(e.NewContext(req, rec))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", rec.Body.String())
		})
	}
}

func TestWithPrincipal_NoPrincipal(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := WithPrincipal(func(echo.Context, models.Principal) error { return nil })(c)
	assert.Equal(t, echo.ErrUnauthorized, err)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	handler := rl.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	e := echo.New()
	call := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
		return rec
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, call("10.0.0.1").Code)
	limited := call("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.JSONEq(t, `{"success":false,"message":"Too many requests, please try again later"}`, limited.Body.String())

	assert.Equal(t, http.StatusOK, call("10.0.0.2").Code, "other clients keep their own bucket")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	for i := 0; i <= maxTrackedClients; i++ {
		rl.getLimiter(primitive.NewObjectID().Hex())
	}
	rl.Cleanup()
	assert.Empty(t, rl.limiters)

	rl.getLimiter("a")
	rl.Cleanup()
	assert.Len(t, rl.limiters, 1)
}

func TestRequestID(t *testing.T) {
	var fromContext string
	handler := RequestID()(func(c echo.Context) error {
		fromContext = logging.RequestIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	e := echo.New()
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))

	id := rec.Header().Get(echo.HeaderXRequestID)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, fromContext)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "upstream-id")
	rec = httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, "upstream-id", rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, "upstream-id", fromContext)
}
