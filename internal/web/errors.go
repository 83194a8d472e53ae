package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
)

const internalErrorMessage = "internal server error"

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler maps the error taxonomy to HTTP status codes.
// Unclassified errors are logged and answered with a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := StatusOf(err)

	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")

		msg = internalErrorMessage
	}

	return c.Status(status).JSON(errorResponse{Error: msg})
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	var fe *fiber.Error

	switch {
	case errors.Is(err, auth.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, auth.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, auth.ErrConflict):
		return fiber.StatusConflict
	case errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError:
		return fe.Code
	default:
		return fiber.StatusInternalServerError
	}
}
