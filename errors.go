// Package sparql wires the five core subsystems — transformers, parser,
// translator, optimizer and executor — into a single query engine over an
// in-memory RDF triple store, plus a result cache with incremental
// invalidation.
package sparql

import "github.com/kbvault/sparql/kerrors"

// Kind and Error are re-exported from kerrors so callers outside the
// module see them at the root package, while every internal subpackage
// depends on kerrors directly (a leaf package) rather than on this one,
// avoiding an import cycle back through the engine.
type (
	Kind  = kerrors.Kind
	Error = kerrors.Error
)

const (
	KindSyntaxError        = kerrors.KindSyntaxError
	KindUnsupportedFeature = kerrors.KindUnsupportedFeature
	KindTypeError          = kerrors.KindTypeError
	KindUnboundVariable    = kerrors.KindUnboundVariable
	KindDivisionByZero     = kerrors.KindDivisionByZero
	KindNumericOverflow    = kerrors.KindNumericOverflow
	KindBadRegex           = kerrors.KindBadRegex
	KindInvalidDateTime    = kerrors.KindInvalidDateTime
	KindCancelled          = kerrors.KindCancelled
	KindStoreError         = kerrors.KindStoreError
	KindAggregateError     = kerrors.KindAggregateError
	KindInternal           = kerrors.KindInternal
)

// NewError builds a typed error with no wrapped cause.
func NewError(kind Kind, msg string) *Error { return kerrors.New(kind, msg) }

// Wrap builds a typed error around an existing error.
func Wrap(kind Kind, err error, msg string) *Error { return kerrors.Wrap(kind, err, msg) }

// AtPosition attaches a source location to a syntax error.
func AtPosition(kind Kind, msg string, line, col int) *Error {
	return kerrors.AtPosition(kind, msg, line, col)
}

// IsCancelled reports whether err is (or wraps) a Cancelled error.
func IsCancelled(err error) bool { return kerrors.IsCancelled(err) }
