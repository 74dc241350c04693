// Package optimize rewrites an algebra tree into an equivalent tree
// expected to execute faster: filter pushdown, BGP reordering by
// estimated selectivity, constant folding, and join-associativity swaps
// favoring a small VALUES on the right. Every rewrite preserves bag
// semantics; none may be skipped by a caller that wants correct
// duplicate counts, so optimizer errors are never caught and ignored.
package optimize

import (
	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/store"
)

// Optimize applies every rewrite pass and returns the transformed tree.
// st may be nil, in which case BGP reordering only uses bound-position
// selectivity and source order.
func Optimize(op algebra.Op, st *store.Store) algebra.Op {
	op = pushdownFilters(op)
	op = algebra.Walk(op, func(o algebra.Op) algebra.Op {
		if bgp, ok := o.(algebra.BGP); ok {
			return reorderBGP(bgp, st)
		}
		return o
	})
	op = algebra.Walk(op, foldConstants)
	op = algebra.Walk(op, swapJoinForSmallValues)
	return op
}
