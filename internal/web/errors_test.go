package web

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", pkgerrors.Wrap(auth.ErrValidation, "empty set"), http.StatusBadRequest},
		{"unauthenticated", auth.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", pkgerrors.Wrapf(auth.ErrForbidden, "operation %s", "roles.list"), http.StatusForbidden},
		{"not found", pkgerrors.Wrap(auth.ErrNotFound, "role 1"), http.StatusNotFound},
		{"conflict", pkgerrors.Wrap(auth.ErrConflict, "role key"), http.StatusConflict},
		{"fiber client error", fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
		{"fiber server error", fiber.ErrBadGateway, http.StatusInternalServerError},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/internal", func(_ *fiber.Ctx) error {
		return errors.New("dial tcp 10.0.0.1:3306: connection refused")
	})
	app.Get("/conflict", func(_ *fiber.Ctx) error {
		return pkgerrors.Wrap(auth.ErrConflict, "role EDITOR is assigned to 2 user(s)")
	})
	app.Get("/missing", func(_ *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	tests := []struct {
		target string
		status int
		body   string
	}{
		{"/internal", http.StatusInternalServerError, `{"error":"internal server error"}`},
		{"/conflict", http.StatusConflict, `{"error":"role EDITOR is assigned to 2 user(s): conflict"}`},
		{"/missing", http.StatusNotFound, `{"error":"Not Found"}`},
	}

	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil), -1)
		require.NoError(t, err)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		_ = resp.Body.Close()

		assert.Equal(t, tt.status, resp.StatusCode, tt.target)
		assert.JSONEq(t, tt.body, string(body), tt.target)
	}
}
