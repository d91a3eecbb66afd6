// Package apperr defines the error-kind taxonomy shared by every layer of
// fredmcp (spec §7). Lower layers never raise raw transport exceptions to
// callers; they wrap failures into a *Error carrying one of the fixed
// Kind values, using eris for stack-trace-preserving wraps the way the
// rest of the pack does.
package apperr

import (
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
)

// Kind is the closed set of error kinds a ToolResponse.metadata.error_kind
// may report (spec §7).
type Kind string

const (
	KindConfig         Kind = "CONFIG"
	KindValidation     Kind = "VALIDATION"
	KindCacheMiss      Kind = "CACHE_MISS"
	KindRateLimited    Kind = "RATE_LIMITED"
	KindUpstream4xx    Kind = "UPSTREAM_4XX"
	KindUpstream5xx    Kind = "UPSTREAM_5XX"
	KindTransport      Kind = "TRANSPORT"
	KindNoDataFetched  Kind = "NO_DATA_FETCHED"
	KindNoCommonDates  Kind = "NO_COMMON_DATES"
	KindCancelled      Kind = "CANCELLED"
)

// Error is a typed, wrapped error. The wrapped cause is preserved via eris
// so %+v still prints a stack trace in debug logging.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.cause.Error())
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a *Error from a format string, wrapped with eris for stack
// capture.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, cause: eris.Errorf(format, args...)}
}

// Wrap attaches a Kind to an existing error, preserving it as the cause via
// eris.Wrap so the original stack is retained.
func Wrap(kind Kind, err error, msg string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, cause: eris.Wrap(err, msg)}
}

// KindOf extracts the Kind from err if it (or something it wraps) is an
// *Error; otherwise it returns KindTransport as the conservative default.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransport
}
