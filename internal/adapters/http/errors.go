package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/fieldproof/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, not_found, internal_error, or a location error kind
	Message   string `json:"message"` // Human-readable message
	Detail    string `json:"detail,omitempty"`
	Fallback  string `json:"fallback_code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: requestID(c),
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// errLocation returns a 422 whose code is the location error kind and whose
// message tells the user how to fix it.
func errLocation(c *fiber.Ctx, le *domain.LocationError) error {
	body := APIError{
		Status:    fiber.StatusUnprocessableEntity,
		Code:      le.Kind.String(),
		Message:   le.Kind.UserMessage(),
		Detail:    le.Error(),
		RequestID: requestID(c),
	}
	if le.Fallback != nil {
		body.Fallback = le.Fallback.Kind.String()
	}
	return c.Status(body.Status).JSON(body)
}

// errFromDomain maps usecase errors onto HTTP responses.
func errFromDomain(c *fiber.Ctx, err error) error {
	var le *domain.LocationError
	var ce *domain.CoordinateError
	switch {
	case errors.As(err, &le):
		return errLocation(c, le)
	case errors.As(err, &ce):
		return newError(c, fiber.StatusBadRequest, "invalid_coordinate", ce.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return errBadRequest(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return newError(c, fiber.StatusRequestTimeout, "request_timeout", "request took too long")
	default:
		LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
		return errInternal(c, "internal error")
	}
}
