package expression

import (
	"strings"

	"github.com/kbvault/sparql/kerrors"
	"github.com/kbvault/sparql/term"
)

func compareOp(op string, l, r term.Term) (term.Term, error) {
	switch op {
	case "=":
		return boolTerm(sameValue(l, r)), nil
	case "!=":
		return boolTerm(!sameValue(l, r)), nil
	}

	c, ok := orderCompare(l, r)
	if !ok {
		return nil, kerrors.New(kerrors.KindTypeError, "values are not ordering-comparable")
	}
	switch op {
	case "<":
		return boolTerm(c < 0), nil
	case "<=":
		return boolTerm(c <= 0), nil
	case ">":
		return boolTerm(c > 0), nil
	case ">=":
		return boolTerm(c >= 0), nil
	default:
		return nil, kerrors.New(kerrors.KindUnsupportedFeature, "unknown comparison operator "+op)
	}
}

// sameValue is SPARQL's "=" semantics: RDF term equality for IRIs and
// blank nodes, value equality (not lexical) for numerics and dateTimes,
// and Literal.Equals (lexical+datatype+language+direction) otherwise.
func sameValue(l, r term.Term) bool {
	if ln, lok := asNumeric(l); lok {
		if rn, rok := asNumeric(r); rok {
			return ln.f == rn.f
		}
	}
	if lt, lok := asDateTime(l); lok {
		if rt, rok := asDateTime(r); rok {
			return lt.Equal(rt)
		}
	}
	return l.Equals(r)
}

// orderCompare implements SPARQL's ORDER BY term ordering between two
// bound terms: unbound < blank < IRI < literal, and within literals,
// numeric by value, dateTime by instant, otherwise string by code
// point with the language tag as a secondary key. Returns ok=false when
// the two terms are not ordering-comparable (mismatched literal kinds).
func orderCompare(l, r term.Term) (int, bool) {
	lr, rr := termRank(l), termRank(r)
	if lr != rr {
		if lr < rr {
			return -1, true
		}
		return 1, true
	}
	switch lr {
	case rankBlank:
		return strings.Compare(l.(term.Blank).ID, r.(term.Blank).ID), true
	case rankIRI:
		return strings.Compare(l.(term.IRI).Value, r.(term.IRI).Value), true
	case rankLiteral:
		return compareLiterals(l.(term.Literal), r.(term.Literal))
	default:
		return 0, true
	}
}

const (
	rankBlank = iota
	rankIRI
	rankLiteral
)

func termRank(t term.Term) int {
	switch t.(type) {
	case term.Blank:
		return rankBlank
	case term.IRI:
		return rankIRI
	default:
		return rankLiteral
	}
}

func compareLiterals(l, r term.Literal) (int, bool) {
	if ln, lok := asNumeric(l); lok {
		if rn, rok := asNumeric(r); rok {
			return compareFloat(ln.f, rn.f), true
		}
	}
	if lt, lok := asDateTime(l); lok {
		if rt, rok := asDateTime(r); rok {
			switch {
			case lt.Before(rt):
				return -1, true
			case lt.After(rt):
				return 1, true
			default:
				return 0, true
			}
		}
	}
	if l.EffectiveDatatype() == xsdString || l.EffectiveDatatype() == rdfLangString {
		if c := strings.Compare(l.Lexical, r.Lexical); c != 0 {
			return c, true
		}
		return strings.Compare(l.Language, r.Language), true
	}
	return 0, false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
