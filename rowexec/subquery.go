package rowexec

import (
	"context"

	"github.com/kbvault/sparql/algebra"
)

// execLateralJoin evaluates Right once per Left row, keeping the two
// sides structurally independent the same way execJoin does: rather
// than textually substituting Left's bound values into Right's algebra
// tree, correlation is expressed through shared variable names and
// checked post-hoc via compatible/merge. What LateralJoin adds over a
// plain Join is evaluation granularity: Right is rebuilt and drained
// fresh for every Left row, so a LIMIT/ORDER BY inside Right (the
// top-N-per-group pattern) applies within that one row's evaluation
// rather than once across the whole join.
func (ex *Executor) execLateralJoin(ctx context.Context, lj algebra.LateralJoin, scope graphScope) (Iterator, error) {
	leftIt, err := ex.build(ctx, lj.Left, scope)
	if err != nil {
		return nil, err
	}
	leftRows, err := drain(ctx, leftIt)
	if err != nil {
		return nil, err
	}

	var out []Solution
	for _, lrow := range leftRows {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}
		rightIt, err := ex.build(ctx, lj.Right, scope)
		if err != nil {
			return nil, err
		}
		rightRows, err := drain(ctx, rightIt)
		if err != nil {
			return nil, err
		}
		for _, rrow := range rightRows {
			if compatible(lrow, rrow) {
				out = append(out, merge(lrow, rrow))
			}
		}
	}
	return newSliceIter(out), nil
}
