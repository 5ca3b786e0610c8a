// Package apperr carries the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindForbidden
	KindUnauthorized
	KindConflict
	KindUnavailable
)

// Error is a classified error with a client-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }
func Unavailable(msg string) *Error  { return &Error{Kind: KindUnavailable, Message: msg} }

// Internal wraps an unexpected failure. The raw message reaches the client.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Err: err}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf reports the kind of err, KindInternal when it is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HTTP converts err into the *echo.HTTPError returned by handlers.
func HTTP(err error) *echo.HTTPError {
	return echo.NewHTTPError(Status(err), err.Error())
}
