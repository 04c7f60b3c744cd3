package query

import (
	"errors"
	"fmt"

	"github.com/kraxel/txquery/pkg/db"
)

// Kind classifies a failed query for the transport layer.
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindNotFound        Kind = "not_found"
	KindUnavailable     Kind = "unavailable"
	KindTimeout         Kind = "timeout"
	KindInternal        Kind = "internal"
)

// Error is the only error type returned by Service.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func invalidArg(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// fromStore converts a store error. Messages are fixed per kind so driver
// details never reach clients; the cause stays reachable through Unwrap.
func fromStore(err error, what string) *Error {
	switch {
	case errors.Is(err, db.ErrInvalidArgument):
		return &Error{Kind: KindInvalidArgument, Message: "invalid " + what, Err: err}
	case errors.Is(err, db.ErrNotFound):
		return &Error{Kind: KindNotFound, Message: what + " not found", Err: err}
	case errors.Is(err, db.ErrUnavailable):
		return &Error{Kind: KindUnavailable, Message: "transaction store unavailable", Err: err}
	case errors.Is(err, db.ErrTimeout):
		return &Error{Kind: KindTimeout, Message: "query timed out", Err: err}
	default:
		return &Error{Kind: KindInternal, Message: "internal error", Err: err}
	}
}
