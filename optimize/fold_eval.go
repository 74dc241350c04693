package optimize

import (
	"strconv"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/term"
)

// evalConstBinary folds a narrow set of operators over already-bound
// numeric/boolean literal operands: the arithmetic and comparison
// operators plus the two boolean connectives. Anything else (string
// functions, dates, IRIs) is left for the executor's full evaluator, so
// folding here is deliberately conservative rather than exhaustive.
func evalConstBinary(op string, l, r algebra.Term) (algebra.TermExpr, bool) {
	switch op {
	case "&&", "||":
		lb, lok := asBool(l)
		rb, rok := asBool(r)
		if !lok || !rok {
			return algebra.TermExpr{}, false
		}
		var result bool
		if op == "&&" {
			result = lb && rb
		} else {
			result = lb || rb
		}
		return boolExpr(result), true
	case "+", "-", "*", "/":
		lf, lok := asNumber(l)
		rf, rok := asNumber(r)
		if !lok || !rok {
			return algebra.TermExpr{}, false
		}
		if op == "/" && rf == 0 {
			return algebra.TermExpr{}, false // division by zero: defer to executor's error path
		}
		var result float64
		switch op {
		case "+":
			result = lf + rf
		case "-":
			result = lf - rf
		case "*":
			result = lf * rf
		case "/":
			result = lf / rf
		}
		return numberExpr(result), true
	case "=", "!=", "<", "<=", ">", ">=":
		lf, lok := asNumber(l)
		rf, rok := asNumber(r)
		if !lok || !rok {
			return algebra.TermExpr{}, false
		}
		var result bool
		switch op {
		case "=":
			result = lf == rf
		case "!=":
			result = lf != rf
		case "<":
			result = lf < rf
		case "<=":
			result = lf <= rf
		case ">":
			result = lf > rf
		case ">=":
			result = lf >= rf
		}
		return boolExpr(result), true
	default:
		return algebra.TermExpr{}, false
	}
}

func evalConstUnary(op string, t algebra.Term) (algebra.TermExpr, bool) {
	switch op {
	case "!":
		b, ok := asBool(t)
		if !ok {
			return algebra.TermExpr{}, false
		}
		return boolExpr(!b), true
	case "-":
		f, ok := asNumber(t)
		if !ok {
			return algebra.TermExpr{}, false
		}
		return numberExpr(-f), true
	case "+":
		f, ok := asNumber(t)
		if !ok {
			return algebra.TermExpr{}, false
		}
		return numberExpr(f), true
	default:
		return algebra.TermExpr{}, false
	}
}

func asBool(t algebra.Term) (bool, bool) {
	lit, ok := t.Value.(term.Literal)
	if !ok || lit.Datatype != xsdBoolean {
		return false, false
	}
	return lit.Lexical == "true" || lit.Lexical == "1", true
}

func asNumber(t algebra.Term) (float64, bool) {
	lit, ok := t.Value.(term.Literal)
	if !ok {
		return 0, false
	}
	switch lit.Datatype {
	case xsdInteger, xsdDecimal, xsdDouble, "":
		f, err := strconv.ParseFloat(lit.Lexical, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func boolExpr(b bool) algebra.TermExpr {
	lex := "false"
	if b {
		lex = "true"
	}
	return algebra.TermExpr{Term: algebra.Term{Value: term.Literal{Lexical: lex, Datatype: xsdBoolean}}}
}

func numberExpr(f float64) algebra.TermExpr {
	return algebra.TermExpr{Term: algebra.Term{Value: term.Literal{
		Lexical:  strconv.FormatFloat(f, 'g', -1, 64),
		Datatype: xsdDecimal,
	}}}
}

const (
	xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDecimal = "http://www.w3.org/2001/XMLSchema#decimal"
	xsdDouble  = "http://www.w3.org/2001/XMLSchema#double"
)
