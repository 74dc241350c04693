package aggregation

import (
	"strconv"

	"github.com/kbvault/sparql/term"
)

// XSD datatype IRIs, duplicated from the expression and function
// packages' own copies: aggregation must stay a leaf package (no
// import of expression or function) since rowexec will wire all three
// together and an import back from here would cycle.
const (
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDecimal = "http://www.w3.org/2001/XMLSchema#decimal"
	xsdDouble  = "http://www.w3.org/2001/XMLSchema#double"
)

func asFloat(t term.Term) (float64, bool) {
	lit, ok := t.(term.Literal)
	if !ok {
		return 0, false
	}
	switch lit.EffectiveDatatype() {
	case xsdInteger, xsdDecimal, xsdDouble:
		f, err := strconv.ParseFloat(lit.Lexical, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func isIntegerTerm(t term.Term) bool {
	lit, ok := t.(term.Literal)
	return ok && lit.EffectiveDatatype() == xsdInteger
}

func floatTerm(f float64, isInteger bool) term.Term {
	if isInteger {
		return term.NewTyped(strconv.FormatInt(int64(f), 10), xsdInteger)
	}
	return term.NewTyped(strconv.FormatFloat(f, 'g', -1, 64), xsdDecimal)
}
