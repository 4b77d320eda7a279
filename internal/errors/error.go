// Package errors provides the kind-tagged application error type shared
// across layers.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error for transport-level status mapping.
type Kind int

const (
	// KindServer covers storage, upstream and other internal failures.
	KindServer Kind = iota
	// KindNotFound means the product is absent locally or its name is
	// absent upstream.
	KindNotFound
	// KindInvalidRequest means the request itself is malformed.
	KindInvalidRequest
)

// Error is a kind-tagged application error. Every collaborator failure is
// wrapped into one of the three kinds at the service boundary; the
// transport layer switches on the kind and nothing else.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.err }

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}

// InvalidRequest builds a KindInvalidRequest error.
func InvalidRequest(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidRequest, msg: fmt.Sprintf(format, args...)}
}

// Server builds a KindServer error wrapping the underlying cause. The
// cause stays available for logging via errors.Is/As but never reaches
// the response body.
func Server(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindServer, msg: fmt.Sprintf(format, args...), err: cause}
}

// KindOf reports the Kind of err. Errors that do not carry a kind are
// classified as KindServer.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindServer
}
