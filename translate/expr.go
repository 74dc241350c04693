package translate

import (
	"github.com/pkg/errors"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/ast"
)

func translateExpr(e ast.Expr) (algebra.Expr, error) {
	switch v := e.(type) {
	case ast.TermExpr:
		t, err := translateTerm(v.Term)
		if err != nil {
			return nil, err
		}
		return algebra.TermExpr{Term: t}, nil
	case ast.BinaryExpr:
		l, err := translateExpr(v.Left)
		if err != nil {
			return nil, err
		}
		r, err := translateExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return algebra.BinaryExpr{Op: v.Op, Left: l, Right: r}, nil
	case ast.UnaryExpr:
		o, err := translateExpr(v.Operand)
		if err != nil {
			return nil, err
		}
		return algebra.UnaryExpr{Op: v.Op, Operand: o}, nil
	case ast.CallExpr:
		args := make([]algebra.Expr, len(v.Args))
		for i, a := range v.Args {
			r, err := translateExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = r
		}
		return algebra.CallExpr{Name: v.Name, Args: args, Distinct: v.Distinct}, nil
	case ast.ExistsExpr:
		inner, err := translatePattern(v.Pattern)
		if err != nil {
			return nil, err
		}
		return algebra.ExistsExpr{Negated: v.Negated, Pattern: inner}, nil
	case ast.InExpr:
		operand, err := translateExpr(v.Operand)
		if err != nil {
			return nil, err
		}
		set := make([]algebra.Expr, len(v.Set))
		for i, s := range v.Set {
			r, err := translateExpr(s)
			if err != nil {
				return nil, err
			}
			set[i] = r
		}
		return algebra.InExpr{Negated: v.Negated, Operand: operand, Set: set}, nil
	default:
		return nil, errors.New("UnsupportedFeature: unknown expression kind")
	}
}
