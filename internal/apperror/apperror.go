package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the machine-readable error category exposed to API clients.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindInvalidInput  Kind = "invalid_input"
	KindQuotaExceeded Kind = "quota_exceeded"
	KindInternal      Kind = "internal"
)

// Error carries a kind plus a human-readable message. Services return these
// so handlers can map failures to status codes without string matching.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) *Error      { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error      { return &Error{Kind: KindConflict, Message: msg} }
func InvalidInput(msg string) *Error  { return &Error{Kind: KindInvalidInput, Message: msg} }
func QuotaExceeded(msg string) *Error { return &Error{Kind: KindQuotaExceeded, Message: msg} }

// Internal wraps an unexpected failure (usually from the storage layer).
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf classifies any error; plain errors count as internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message for an error. Internal errors
// hide their wrapped cause.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal server error"
}

// HTTPStatus maps an error kind to its response status. Quota exhaustion is
// a 400 rather than 429: the freeze quota is an account limit, not a rate.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidInput, KindQuotaExceeded:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
