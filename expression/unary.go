package expression

import (
	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/kerrors"
	"github.com/kbvault/sparql/term"
)

func (ev *Evaluator) evalUnary(u algebra.UnaryExpr, env Env) (term.Term, error) {
	v, err := ev.Eval(u.Operand, env)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case "!":
		b, ok := effectiveBooleanValue(v)
		if !ok {
			return nil, kerrors.New(kerrors.KindTypeError, "cannot coerce to boolean")
		}
		return boolTerm(!b), nil
	case "-":
		n, ok := asNumeric(v)
		if !ok {
			return nil, kerrors.New(kerrors.KindTypeError, "unary minus operand is not numeric")
		}
		n.f = -n.f
		return numericTerm(n), nil
	case "+":
		n, ok := asNumeric(v)
		if !ok {
			return nil, kerrors.New(kerrors.KindTypeError, "unary plus operand is not numeric")
		}
		return numericTerm(n), nil
	default:
		return nil, kerrors.New(kerrors.KindUnsupportedFeature, "unknown unary operator "+u.Op)
	}
}
