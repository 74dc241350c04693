// Package kerrors implements the engine's typed error taxonomy. It is a
// leaf package (no dependency on any other sparql subpackage) so every
// layer — store, rewrite, langparse, translate, optimize, expression,
// rowexec, resultcache, and the root engine — can share one error
// vocabulary without an import cycle back to the root package.
package kerrors

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Kind distinguishes the error taxonomy required by the engine's
// propagation policy: parse/translate errors abort the query, expression
// errors are caught where SPARQL semantics require it, and a handful of
// kinds are never meant to be caught by query-level code.
type Kind string

const (
	KindSyntaxError        Kind = "SyntaxError"
	KindUnsupportedFeature Kind = "UnsupportedFeature"
	KindTypeError          Kind = "TypeError"
	KindUnboundVariable    Kind = "UnboundVariable"
	KindDivisionByZero     Kind = "DivisionByZero"
	KindNumericOverflow    Kind = "NumericOverflow"
	KindBadRegex           Kind = "BadRegex"
	KindInvalidDateTime    Kind = "InvalidDateTime"
	KindCancelled          Kind = "Cancelled"
	KindStoreError         Kind = "StoreError"
	KindAggregateError     Kind = "AggregateError"
	KindInternal           Kind = "Internal"
)

// Error is a typed engine error. It wraps an underlying cause (often via
// github.com/pkg/errors, to retain a stack trace in development builds)
// while exposing a stable Kind callers can switch on.
type Error struct {
	Kind Kind
	Msg  string
	Line int // 1-based; 0 when not applicable
	Col  int // 1-based; 0 when not applicable
	err  error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.err }

// Cause returns the innermost wrapped error, matching the teacher's use
// of github.com/pkg/errors for stack-trace-preserving wraps.
func (e *Error) Cause() error {
	if e.err == nil {
		return e
	}
	return errors.Cause(e.err)
}

// New builds a typed error with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds a typed error around an existing error, preserving it for
// Unwrap/Cause and for errors.Is/errors.As chains.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, err: errors.Wrap(err, msg)}
}

// AtPosition attaches a source location to a syntax error.
func AtPosition(kind Kind, msg string, line, col int) *Error {
	return &Error{Kind: kind, Msg: msg, Line: line, Col: col}
}

// Is enables errors.Is(err, kerrors.New(KindX, "")) to match by Kind
// alone, ignoring Msg/position — convenient for tests and for callers
// that only care which branch of the taxonomy fired.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// IsCancelled reports whether err is (or wraps) a Cancelled error.
func IsCancelled(err error) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Kind == KindCancelled
}
