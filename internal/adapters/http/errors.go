package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/garagehub/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Success   bool   `json:"success"` // always false
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
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

// errUnprocessable returns a 422 error.
func errUnprocessable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusUnprocessableEntity, "unprocessable", msg)
}

// errTimeout returns a 504 error.
func errTimeout(c *fiber.Ctx) error {
	return newError(c, fiber.StatusGatewayTimeout, "timeout", "request timed out")
}

// statusClientClosedRequest is the non-standard status for a request the
// client abandoned before a response was written.
const statusClientClosedRequest = 499

// errClientClosed returns a 499 error.
func errClientClosed(c *fiber.Ctx) error {
	return newError(c, statusClientClosedRequest, "client_closed_request", "request cancelled")
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// writeError maps a use-case error onto an HTTP error response. notFound
// replaces the message of ErrNotFound when set.
func writeError(c *fiber.Ctx, err error, notFound string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		if notFound == "" {
			notFound = err.Error()
		}
		return errNotFound(c, notFound)
	case errors.Is(err, domain.ErrMissingCoordinates):
		return errUnprocessable(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return errTimeout(c)
	case errors.Is(err, context.Canceled):
		return errClientClosed(c)
	default:
		LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
		return errInternal(c, "internal server error")
	}
}
