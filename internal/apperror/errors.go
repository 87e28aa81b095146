// Package apperror provides domain-specific error types for Itemhub.
// These errors carry an HTTP status code, a stable machine-readable code,
// and a user-safe message. The Echo error handler in the response package
// maps them to the uniform error envelope automatically.
//
// NEVER return raw database or infrastructure errors to the client. Always
// wrap them in an apperror type or return a generic internal error.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes. Every external client switches on these, so
// the pairing with HTTP status codes below must never drift.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the base error type for all domain errors. It carries an
// HTTP status, a machine-readable code, and a human-readable message safe
// to show to the client.
type AppError struct {
	// Status is the HTTP status code (e.g., 404, 400, 500).
	Status int `json:"-"`

	// Code is a machine-readable error classifier (e.g., "NOT_FOUND").
	Code string `json:"code"`

	// Message is a human-readable description safe for the client.
	Message string `json:"message"`

	// Details lists per-field problems for validation failures.
	Details []FieldError `json:"details,omitempty"`

	// Internal holds the underlying error for logging. Never exposed to client.
	Internal error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// --- Constructors for common error types ---

// NewValidation creates a 400 error for malformed or missing input. Details
// may be empty when the body could not be decoded at all.
func NewValidation(message string, details ...FieldError) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: message,
		Details: details,
	}
}

// NewNotFound creates a 404 Not Found error.
func NewNotFound(message string) *AppError {
	return &AppError{
		Status:  http.StatusNotFound,
		Code:    CodeNotFound,
		Message: message,
	}
}

// NewUnauthorized creates a 401 Unauthorized error.
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Status:  http.StatusUnauthorized,
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewForbidden creates a 403 Forbidden error.
func NewForbidden(message string) *AppError {
	return &AppError{
		Status:  http.StatusForbidden,
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewConflict creates a 409 Conflict error.
func NewConflict(message string) *AppError {
	return &AppError{
		Status:  http.StatusConflict,
		Code:    CodeConflict,
		Message: message,
	}
}

// NewInternal creates a 500 Internal Server Error. The real error is stored
// in Internal for logging but the client only sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Status:   http.StatusInternalServerError,
		Code:     CodeInternal,
		Message:  "Internal server error",
		Internal: err,
	}
}

// FromStatus builds an AppError for a bare HTTP status, used when the router
// or framework rejects a request before any handler runs.
func FromStatus(status int, message string) *AppError {
	if message == "" {
		message = http.StatusText(status)
	}
	switch {
	case status == http.StatusUnauthorized:
		return NewUnauthorized(message)
	case status == http.StatusForbidden:
		return NewForbidden(message)
	case status == http.StatusNotFound:
		return NewNotFound(message)
	case status == http.StatusConflict:
		return NewConflict(message)
	case status >= 500:
		return NewInternal(errors.New(message))
	default:
		// Everything else in the 4xx range is some flavour of bad input
		// (405, 413, 415, ...). Keep the original status.
		e := NewValidation(message)
		e.Status = status
		return e
	}
}

// As extracts an *AppError from err, or returns nil.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsNotFound reports whether err is (or wraps) a 404 AppError.
func IsNotFound(err error) bool {
	appErr := As(err)
	return appErr != nil && appErr.Status == http.StatusNotFound
}
