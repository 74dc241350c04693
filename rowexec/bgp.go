package rowexec

import (
	"context"

	"github.com/kbvault/sparql/algebra"
)

// execBGP evaluates a basic graph pattern by backtracking: each pattern
// extends every solution surviving the previous one. Patterns arrive
// pre-ordered by the optimizer's selectivity estimate, so the first
// pattern that actually narrows the search runs first.
func (ex *Executor) execBGP(ctx context.Context, bgp algebra.BGP, scope graphScope) (Iterator, error) {
	rows := []Solution{{}}
	for _, tp := range bgp.Patterns {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}
		var next []Solution
		for _, row := range rows {
			extended, err := ex.matchPattern(tp, row, scope)
			if err != nil {
				return nil, err
			}
			next = append(next, extended...)
		}
		rows = next
		if len(rows) == 0 {
			break
		}
	}
	return newSliceIter(rows), nil
}
