// Package apierr carries an HTTP status and a machine-readable code along
// with an error, so handlers can return errors and render them in one place.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error with an HTTP status and a code.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error.
func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// BadRequest reports invalid caller input.
func BadRequest(err error) *Error { return New(http.StatusBadRequest, "bad_request", err) }

// NotFound reports a missing resource with a user-facing message.
func NotFound(msg string) *Error { return New(http.StatusNotFound, "not_found", errors.New(msg)) }

// Unauthorized reports a missing or invalid credential.
func Unauthorized(msg string) *Error {
	return New(http.StatusUnauthorized, "unauthorized", errors.New(msg))
}

// Internal hides err behind a generic message.
func Internal(err error) *Error { return New(http.StatusInternalServerError, "internal", err) }

// From returns err as an *Error, classifying unknown errors as internal.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}
