// ===============================
// internal/apperrors/errors.go - Typed API Errors
// ===============================

package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an APIError
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindRateLimited  Kind = "rate_limited"
	KindInternal     Kind = "internal_error"
)

// APIError is the single error type returned by services and handlers.
// The error middleware turns it into the failure envelope.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Errors     []string
	cause      error
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// WithDetails attaches field level messages
func (e *APIError) WithDetails(details ...string) *APIError {
	e.Errors = append(e.Errors, details...)
	return e
}

func newError(kind Kind, status int, msg string, cause error) *APIError {
	return &APIError{Kind: kind, StatusCode: status, Message: msg, cause: cause}
}

// Constructors
func InvalidInput(msg string) *APIError {
	return newError(KindInvalidInput, http.StatusBadRequest, msg, nil)
}

func Unauthorized(msg string) *APIError {
	return newError(KindUnauthorized, http.StatusUnauthorized, msg, nil)
}

func Forbidden(msg string) *APIError {
	return newError(KindForbidden, http.StatusForbidden, msg, nil)
}

func NotFound(msg string) *APIError {
	return newError(KindNotFound, http.StatusNotFound, msg, nil)
}

func TooManyRequests(msg string) *APIError {
	return newError(KindRateLimited, http.StatusTooManyRequests, msg, nil)
}

func Internal(msg string, cause error) *APIError {
	return newError(KindInternal, http.StatusInternalServerError, msg, cause)
}

// Type checks
func As(err error) (*APIError, bool) {
	var e *APIError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

func IsNotFound(err error) bool     { return Is(err, KindNotFound) }
func IsForbidden(err error) bool    { return Is(err, KindForbidden) }
func IsInvalidInput(err error) bool { return Is(err, KindInvalidInput) }
func IsInternal(err error) bool     { return Is(err, KindInternal) }

// FromError converts any error into an APIError. Unknown errors become a
// generic internal error so driver messages never leak to clients.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}
	return Internal("Something went wrong", err)
}
