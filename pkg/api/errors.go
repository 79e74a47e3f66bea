package api

import (
	"errors"
	"fmt"
)

// ErrUnknownMethod is returned when a method name does not name a known
// HTTP method.
var ErrUnknownMethod = errors.New("unknown HTTP method")

// ErrorType represents the category of a request-handling error.
type ErrorType string

const (
	ErrorTypeServerError     ErrorType = "server_error"
	ErrorTypeInvalidRequest  ErrorType = "invalid_request"
	ErrorTypeUnauthorized    ErrorType = "unauthorized"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeTooManyRequests ErrorType = "too_many_requests"
)

// Error is a typed error an Application may return instead of writing an
// error response itself. An error-handling middleware translates the type
// into a status code.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewInvalidRequestError creates an Error for malformed client input.
func NewInvalidRequestError(message string) *Error {
	return &Error{Type: ErrorTypeInvalidRequest, Message: message}
}

// NewUnauthorizedError creates an Error for missing or bad credentials.
func NewUnauthorizedError(message string) *Error {
	return &Error{Type: ErrorTypeUnauthorized, Message: message}
}

// NewNotFoundError creates an Error for resources that cannot be found.
func NewNotFoundError(message string) *Error {
	return &Error{Type: ErrorTypeNotFound, Message: message}
}

// NewServerError creates an Error for internal failures.
func NewServerError(message string, cause error) *Error {
	return &Error{Type: ErrorTypeServerError, Message: message, Cause: cause}
}

// NewTooManyRequestsError creates an Error for rate limiting.
func NewTooManyRequestsError(message string) *Error {
	return &Error{Type: ErrorTypeTooManyRequests, Message: message}
}
