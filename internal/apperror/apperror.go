package apperror

// Package apperror defines the typed API errors shared by all layers.
// Services and repositories return *Error values; the HTTP error handler
// translates them into the standardized response envelope.

import (
	"errors"
	"net/http"
)

// FieldError describes a validation problem scoped to a single field.
// Field is empty for errors that apply to the whole payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is an API error carrying an HTTP status, a machine-readable code,
// a safe human-readable message and optional per-field details.
type Error struct {
	Status  int          `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return e.Message + ": " + e.Fields[0].Message
	}
	return e.Message
}

// WithCode overrides the default machine-readable code.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// WithFields appends field-level details.
func (e *Error) WithFields(fields ...FieldError) *Error {
	e.Fields = append(e.Fields, fields...)
	return e
}

func BadRequest(message string, fields ...FieldError) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message, Fields: fields}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: message}
}

func Conflict(message string, fields ...FieldError) *Error {
	return &Error{Status: http.StatusConflict, Code: "CONFLICT", Message: message, Fields: fields}
}

func Internal(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: message}
}

// From coerces an arbitrary error into an *Error. Unknown errors become
// an internal error with a generic message so internals never leak.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal("internal server error")
}
