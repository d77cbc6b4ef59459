package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"invalid transition", InvalidTransition("nope"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("login"), http.StatusUnauthorized},
		{"forbidden", Forbidden("admin only"), http.StatusForbidden},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"conflict", Conflict("exists"), http.StatusConflict},
		{"internal", Internal(errors.New("boom"), "Server error"), http.StatusInternalServerError},
		{"plain error", errors.New("raw"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("inner")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessageHidesCause(t *testing.T) {
	err := Internal(errors.New("connection refused"), "Failed to create order")

	assert.Equal(t, "Failed to create order", PublicMessage(err))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "Server error", PublicMessage(errors.New("raw")))
}

func TestIs(t *testing.T) {
	assert.True(t, Is(Forbidden("x"), KindForbidden))
	assert.False(t, Is(nil, KindInternal))
	assert.False(t, Is(Forbidden("x"), KindNotFound))
}
