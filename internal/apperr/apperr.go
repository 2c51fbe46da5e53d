// Package apperr is the error taxonomy shared by services and handlers.
// Services return *Error values; handlers turn them into an HTTP status
// and a localized message keyed by MessageID.
package apperr

import (
	"errors"
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
	KindOutOfRange
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindOutOfRange:
		return "location_out_of_range"
	default:
		return "server_error"
	}
}

// Status maps a kind to its HTTP status. Conflicts are reported as 400 to
// keep the status codes clients already handle.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden, KindOutOfRange:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind      Kind
	MessageID string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.MessageID + ": " + e.Err.Error()
	}
	return e.MessageID
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, messageID string) *Error {
	return &Error{Kind: kind, MessageID: messageID}
}

func Validation(messageID string) *Error   { return New(KindValidation, messageID) }
func Unauthorized(messageID string) *Error { return New(KindUnauthorized, messageID) }
func Forbidden(messageID string) *Error    { return New(KindForbidden, messageID) }
func NotFound(messageID string) *Error     { return New(KindNotFound, messageID) }
func Conflict(messageID string) *Error     { return New(KindConflict, messageID) }

// Internal wraps a downstream failure. The cause is kept for logging and
// never shown to the client.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, MessageID: "error.server", Err: err}
}

// From extracts the *Error from err's chain. Plain errors are treated as
// internal failures.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	return From(err).Kind.Status()
}
