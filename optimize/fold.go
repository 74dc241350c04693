package optimize

import "github.com/kbvault/sparql/algebra"

// foldConstants replaces a BinaryExpr/UnaryExpr whose operands are all
// already-bound TermExpr values with a single TermExpr holding the
// folded result, when the operator's result can be computed without
// store access (arithmetic and boolean connectives over literals). A
// CallExpr's arguments are folded, but the call itself is kept.
// Evaluation errors are left unfolded: the original expression survives
// to raise the same error at execution time, so folding never changes
// observable behavior, only when an error is detected.
func foldConstants(op algebra.Op) algebra.Op {
	switch v := op.(type) {
	case algebra.Filter:
		v.Expr = foldExpr(v.Expr)
		return v
	case algebra.Extend:
		v.Expr = foldExpr(v.Expr)
		return v
	case algebra.OrderBy:
		for i := range v.Conditions {
			v.Conditions[i].Expr = foldExpr(v.Conditions[i].Expr)
		}
		return v
	case algebra.Group:
		for i := range v.Keys {
			v.Keys[i] = foldExpr(v.Keys[i])
		}
		for i := range v.Aggregates {
			if call, ok := v.Aggregates[i].Call.(algebra.CallExpr); ok {
				for j := range call.Args {
					call.Args[j] = foldExpr(call.Args[j])
				}
				v.Aggregates[i].Call = call
			}
		}
		return v
	default:
		return op
	}
}

func foldExpr(e algebra.Expr) algebra.Expr {
	switch v := e.(type) {
	case algebra.BinaryExpr:
		v.Left = foldExpr(v.Left)
		v.Right = foldExpr(v.Right)
		lt, lok := asConstant(v.Left)
		rt, rok := asConstant(v.Right)
		if lok && rok {
			if folded, ok := evalConstBinary(v.Op, lt, rt); ok {
				return folded
			}
		}
		return v
	case algebra.UnaryExpr:
		v.Operand = foldExpr(v.Operand)
		if t, ok := asConstant(v.Operand); ok {
			if folded, ok := evalConstUnary(v.Op, t); ok {
				return folded
			}
		}
		return v
	case algebra.CallExpr:
		for i := range v.Args {
			v.Args[i] = foldExpr(v.Args[i])
		}
		return v
	case algebra.InExpr:
		v.Operand = foldExpr(v.Operand)
		for i := range v.Set {
			v.Set[i] = foldExpr(v.Set[i])
		}
		return v
	default:
		return e
	}
}

func asConstant(e algebra.Expr) (algebra.Term, bool) {
	t, ok := e.(algebra.TermExpr)
	if !ok || t.Term.IsVar() {
		return algebra.Term{}, false
	}
	return t.Term, true
}
