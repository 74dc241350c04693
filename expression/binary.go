package expression

import (
	"math"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/kerrors"
	"github.com/kbvault/sparql/term"
)

func (ev *Evaluator) evalBinary(b algebra.BinaryExpr, env Env) (term.Term, error) {
	switch b.Op {
	case "&&":
		l, err := ev.evalBoolShortCircuit(b.Left, env, false)
		if err != nil || l == boolShortCircuited {
			return boolErrOrTerm(l, err, false)
		}
		r, err := ev.evalBoolShortCircuit(b.Right, env, false)
		return boolErrOrTerm(r, err, false)
	case "||":
		l, err := ev.evalBoolShortCircuit(b.Left, env, true)
		if err != nil || l == boolShortCircuited {
			return boolErrOrTerm(l, err, true)
		}
		r, err := ev.evalBoolShortCircuit(b.Right, env, true)
		return boolErrOrTerm(r, err, true)
	}

	left, err := ev.Eval(b.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := ev.Eval(b.Right, env)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case "=", "!=", "<", "<=", ">", ">=":
		return compareOp(b.Op, left, right)
	case "+", "-", "*", "/":
		return arithOp(b.Op, left, right)
	default:
		return nil, kerrors.New(kerrors.KindUnsupportedFeature, "unknown operator "+b.Op)
	}
}

// boolTri is a three-valued signal used to implement && and ||'s
// short-circuit evaluation: SPARQL allows "false && error" to be false
// and "true || error" to be true even though the other operand errored.
type boolTri int

const (
	boolFalse boolTri = iota
	boolTrue
	boolShortCircuited
	boolErrored
)

// evalBoolShortCircuit evaluates e as a boolean, reporting
// boolShortCircuited when its value alone determines the connective's
// result (false for &&'s left operand, true for ||'s).
func (ev *Evaluator) evalBoolShortCircuit(e algebra.Expr, env Env, shortOn bool) (boolTri, error) {
	v, err := ev.Eval(e, env)
	if err != nil {
		return boolErrored, err
	}
	b, ok := effectiveBooleanValue(v)
	if !ok {
		return boolErrored, kerrors.New(kerrors.KindTypeError, "cannot coerce to boolean")
	}
	if b == shortOn {
		return boolShortCircuited, nil
	}
	if b {
		return boolTrue, nil
	}
	return boolFalse, nil
}

func boolErrOrTerm(v boolTri, err error, shortOn bool) (term.Term, error) {
	if err != nil {
		return nil, err
	}
	return boolTerm(v == boolTrue || (v == boolShortCircuited && shortOn)), nil
}

func effectiveBooleanValue(t term.Term) (bool, bool) {
	lit, ok := t.(term.Literal)
	if !ok {
		return false, false
	}
	switch lit.EffectiveDatatype() {
	case xsdBoolean:
		return lit.Lexical == "true" || lit.Lexical == "1", true
	case xsdString:
		return lit.Lexical != "", true
	default:
		if n, ok := asNumeric(lit); ok {
			return n.f != 0 && !math.IsNaN(n.f), true
		}
		return false, false
	}
}

func arithOp(op string, l, r term.Term) (term.Term, error) {
	if lt, lok := asDateTime(l); lok {
		switch op {
		case "-":
			if rt, rok := asDateTime(r); rok {
				return durationTerm(lt.Sub(rt)), nil
			}
			if rd, rok := asDuration(r); rok {
				return dateTimeTerm(lt.Add(-rd)), nil
			}
		case "+":
			if rd, rok := asDuration(r); rok {
				return dateTimeTerm(lt.Add(rd)), nil
			}
		}
		return nil, kerrors.New(kerrors.KindTypeError, "invalid dateTime arithmetic operand")
	}
	if ld, lok := asDuration(l); lok {
		if rd, rok := asDuration(r); rok {
			switch op {
			case "+":
				return durationTerm(ld + rd), nil
			case "-":
				return durationTerm(ld - rd), nil
			}
		}
		return nil, kerrors.New(kerrors.KindTypeError, "invalid duration arithmetic operand")
	}

	ln, lok := asNumeric(l)
	rn, rok := asNumeric(r)
	if !lok || !rok {
		return nil, kerrors.New(kerrors.KindTypeError, "arithmetic operand is not numeric")
	}
	result := numericValue{isInteger: ln.isInteger && rn.isInteger}
	switch op {
	case "+":
		result.f = ln.f + rn.f
	case "-":
		result.f = ln.f - rn.f
	case "*":
		result.f = ln.f * rn.f
	case "/":
		if rn.f == 0 {
			return nil, kerrors.New(kerrors.KindDivisionByZero, "division by zero")
		}
		result.f = ln.f / rn.f
		result.isInteger = false // xsd division always promotes to decimal
	}
	return numericTerm(result), nil
}
