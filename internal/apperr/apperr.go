// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindDatabase
	KindRateLimited
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeDatabase     = "DATABASE_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
	CodeRateLimited  = "RATE_LIMITED"
)

// Error is a classified failure that handlers render into the response envelope.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	return e.Kind.Status()
}

func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) code() string {
	switch k {
	case KindValidation:
		return CodeValidation
	case KindUnauthorized:
		return CodeUnauthorized
	case KindForbidden:
		return CodeForbidden
	case KindNotFound:
		return CodeNotFound
	case KindConflict:
		return CodeConflict
	case KindDatabase:
		return CodeDatabase
	case KindRateLimited:
		return CodeRateLimited
	default:
		return CodeInternal
	}
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Code: kind.code(), Message: message, Err: err}
}

func Validation(message string) *Error {
	return newError(KindValidation, message, nil)
}

func ValidationWithDetails(message string, details map[string]interface{}) *Error {
	e := newError(KindValidation, message, nil)
	e.Details = details
	return e
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "Unauthorized"
	}
	return newError(KindUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "Forbidden"
	}
	return newError(KindForbidden, message, nil)
}

// NotFound builds "<resource> not found".
func NotFound(resource string) *Error {
	return newError(KindNotFound, resource+" not found", nil)
}

func Conflict(message string) *Error {
	return newError(KindConflict, message, nil)
}

func Database(message string, err error) *Error {
	return newError(KindDatabase, message, err)
}

func Internal(message string, err error) *Error {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return newError(KindInternal, message, err)
}

func RateLimited(message string) *Error {
	return newError(KindRateLimited, message, nil)
}

// From returns err as *Error, classifying unknown errors as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("", err)
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
