// Package apperr defines the typed errors domain services return. The HTTP
// layer maps each Kind to a status code, so services never import net/http.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes an error for HTTP mapping and for callers branching on
// failure class.
type Kind int

const (
	// KindUnknown is the zero value; untyped errors resolve to it.
	KindUnknown Kind = iota
	// KindNotFound: the addressed entity does not exist.
	KindNotFound
	// KindValidation: the request is well-formed but semantically invalid.
	KindValidation
	// KindConflict: the mutation collides with current state, e.g. an
	// illegal status transition or a violated safety invariant.
	KindConflict
	// KindForbidden: the caller lacks the required role.
	KindForbidden
	// KindUnauthorized: no valid credentials.
	KindUnauthorized
	// KindBadRequest: the request could not be parsed.
	KindBadRequest
	// KindInternal: an unexpected failure on our side.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindBadRequest:
		return "bad_request"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a domain error carrying its Kind, an operator-readable message,
// an optional cause, and optional response details.
type Error struct {
	Kind    Kind
	Message string
	Err     error
	Details interface{}
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetails attaches structured details that end up in the error response.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// HTTPStatus maps the error's Kind to a status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a typed error around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NotFound creates a KindNotFound error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Validation creates a KindValidation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Validationf creates a KindValidation error with a formatted message.
func Validationf(format string, args ...interface{}) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

// Conflict creates a KindConflict error.
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// Conflictf creates a KindConflict error with a formatted message.
// Transition guards use this to name the action and the current status.
func Conflictf(format string, args ...interface{}) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...))
}

// Forbidden creates a KindForbidden error.
func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// Unauthorized creates a KindUnauthorized error.
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// Internal creates a KindInternal error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// GetKind resolves an error's Kind, unwrapping as needed. Untyped errors
// are KindUnknown.
func GetKind(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
