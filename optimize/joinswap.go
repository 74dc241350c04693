package optimize

import "github.com/kbvault/sparql/algebra"

// smallValuesThreshold is the row count below which a VALUES block is
// considered cheap enough to prefer as a join's re-evaluated side.
const smallValuesThreshold = 8

// swapJoinForSmallValues moves a small VALUES block to the right side
// of a Join. The executor's Join reads its Left side once and evaluates
// its Right side again for every Left row, so the small block becomes
// the side that is re-evaluated. Left-deep join trees are the default;
// this is the one case worth deviating from source order.
func swapJoinForSmallValues(op algebra.Op) algebra.Op {
	j, ok := op.(algebra.Join)
	if !ok {
		return op
	}
	if isSmallValues(j.Left) && !isSmallValues(j.Right) {
		return algebra.Join{Left: j.Right, Right: j.Left}
	}
	return j
}

func isSmallValues(op algebra.Op) bool {
	v, ok := op.(algebra.Values)
	return ok && len(v.Bindings) <= smallValuesThreshold
}
