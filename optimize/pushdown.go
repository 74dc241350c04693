package optimize

import "github.com/kbvault/sparql/algebra"

// pushdownFilters moves each Filter as close to its relevant BGP/join
// leaf as variable scoping allows: a filter referencing only variables
// bound on one side of a Join can move below that Join, repeated until
// no more progress is possible. This never changes which rows satisfy
// the filter, only when, so bag semantics (including duplicate counts)
// are preserved.
func pushdownFilters(op algebra.Op) algebra.Op {
	return algebra.Walk(op, func(o algebra.Op) algebra.Op {
		f, ok := o.(algebra.Filter)
		if !ok {
			return o
		}
		return pushOneFilter(f)
	})
}

// pushOneFilter attempts to push f.Expr below f.Input, returning the
// rewritten tree. It recurses since pushing past one Join may expose
// another Join the filter can move past too.
func pushOneFilter(f algebra.Filter) algebra.Op {
	vars := exprVars(f.Expr)

	switch inner := f.Input.(type) {
	case algebra.Join:
		switch {
		case subsetOf(vars, outputVars(inner.Left)):
			newLeft := pushOneFilter(algebra.Filter{Input: inner.Left, Expr: f.Expr})
			return algebra.Join{Left: newLeft, Right: inner.Right}
		case subsetOf(vars, outputVars(inner.Right)):
			newRight := pushOneFilter(algebra.Filter{Input: inner.Right, Expr: f.Expr})
			return algebra.Join{Left: inner.Left, Right: newRight}
		}
	case algebra.LeftJoin:
		if subsetOf(vars, outputVars(inner.Left)) {
			return algebra.LeftJoin{
				Left:   pushOneFilter(algebra.Filter{Input: inner.Left, Expr: f.Expr}),
				Right:  inner.Right,
				Filter: inner.Filter,
			}
		}
	case algebra.Extend:
		if !contains(vars, inner.Var) {
			return algebra.Extend{
				Input: pushOneFilter(algebra.Filter{Input: inner.Input, Expr: f.Expr}),
				Var:   inner.Var,
				Expr:  inner.Expr,
			}
		}
	}
	return f
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func subsetOf(small, big []string) bool {
	if len(small) == 0 {
		return false // a ground/constant filter gains nothing from pushdown
	}
	for _, s := range small {
		if !contains(big, s) {
			return false
		}
	}
	return true
}
