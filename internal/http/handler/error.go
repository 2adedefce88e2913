package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"inscode/internal/apperror"
	"inscode/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string                `json:"code"`
	Message string                `json:"message"`
	Fields  []apperror.FieldError `json:"fields,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, apiErr *apperror.Error) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Fields:  apiErr.Fields,
		},
	}
	return c.Status(apiErr.Status).JSON(res)
}

// ErrorHandler returns a Fiber global error handler that standardizes
// error responses. Typed API errors keep their status, code and field
// details; fiber routing errors map to the matching envelope; anything
// else becomes a generic 500 so internals never leak.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var apiErr *apperror.Error
		if errors.As(err, &apiErr) {
			return writeError(c, apiErr)
		}

		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, apperror.BadRequest("bad request"))
		case fiber.StatusUnauthorized:
			return writeError(c, apperror.Unauthorized("unauthorized"))
		case fiber.StatusNotFound:
			return writeError(c, apperror.NotFound("resource not found"))
		case fiber.StatusMethodNotAllowed:
			return writeError(c, &apperror.Error{
				Status:  status,
				Code:    "METHOD_NOT_ALLOWED",
				Message: "method not allowed",
			})
		default:
			return writeError(c, apperror.Internal("internal server error"))
		}
	}
}
