// Package apperr defines the error taxonomy shared by services and handlers.
// Services return *Error values; handlers map the Kind to an HTTP status.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for the caller.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindUpstream
	KindMisconfigured
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid_input"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream_failure"
	case KindMisconfigured:
		return "server_misconfiguration"
	default:
		return "internal"
	}
}

// HTTPStatus returns the status code a handler responds with for k.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalid:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	// Detail is passed through to the client verbatim (upstream bodies).
	Detail any
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two *Error values by Kind, so errors.Is(err, apperr.NotFound(""))
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newErr(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Invalid(msg string) *Error         { return newErr(KindInvalid, msg) }
func Unauthenticated(msg string) *Error { return newErr(KindUnauthenticated, msg) }
func Forbidden(msg string) *Error       { return newErr(KindForbidden, msg) }
func NotFound(msg string) *Error        { return newErr(KindNotFound, msg) }
func Conflict(msg string) *Error        { return newErr(KindConflict, msg) }
func Misconfigured(msg string) *Error   { return newErr(KindMisconfigured, msg) }

// Upstream reports a failed call to a third-party service. detail is the
// upstream body when one could be decoded.
func Upstream(msg string, detail any, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Detail: detail, Err: cause}
}

// Internal wraps an unexpected failure; the cause is logged, never sent.
func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: cause}
}

// KindOf returns the Kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
