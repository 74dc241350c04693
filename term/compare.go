package term

import (
	"sort"
	"strconv"
	"time"
)

// tier assigns the coarse SPARQL ordering tier: blank < IRI < literal.
// QuotedTriple terms (RDF-star) sort after literals, as they have no
// defined position in SPARQL's ORDER BY term ordering and must still be
// totally ordered for DISTINCT/GROUP BY bookkeeping.
func tier(t Term) int {
	switch t.(type) {
	case Blank:
		return 0
	case IRI:
		return 1
	case Literal:
		return 2
	case QuotedTriple:
		return 3
	default:
		return 4
	}
}

var (
	numericDatatypes = map[string]bool{
		"http://www.w3.org/2001/XMLSchema#integer":            true,
		"http://www.w3.org/2001/XMLSchema#decimal":            true,
		"http://www.w3.org/2001/XMLSchema#double":             true,
		"http://www.w3.org/2001/XMLSchema#float":              true,
		"http://www.w3.org/2001/XMLSchema#int":                true,
		"http://www.w3.org/2001/XMLSchema#long":                true,
		"http://www.w3.org/2001/XMLSchema#short":                true,
		"http://www.w3.org/2001/XMLSchema#nonNegativeInteger":   true,
		"http://www.w3.org/2001/XMLSchema#positiveInteger":      true,
		"http://www.w3.org/2001/XMLSchema#nonPositiveInteger":   true,
		"http://www.w3.org/2001/XMLSchema#negativeInteger":      true,
	}
	dateDatatypes = map[string]bool{
		"http://www.w3.org/2001/XMLSchema#dateTime": true,
		"http://www.w3.org/2001/XMLSchema#date":     true,
		"http://www.w3.org/2001/XMLSchema#time":     true,
	}
)

// IsNumeric reports whether l carries one of the xsd numeric datatypes.
func IsNumeric(l Literal) bool {
	return numericDatatypes[l.EffectiveDatatype()]
}

// IsDateTime reports whether l carries an xsd date/time datatype.
func IsDateTime(l Literal) bool {
	return dateDatatypes[l.EffectiveDatatype()]
}

// NumericValue parses a numeric literal's lexical form as a float64.
func NumericValue(l Literal) (float64, bool) {
	if !IsNumeric(l) {
		return 0, false
	}
	f, err := strconv.ParseFloat(l.Lexical, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// InstantValue parses a dateTime/date/time literal to an absolute instant.
func InstantValue(l Literal) (time.Time, bool) {
	if !IsDateTime(l) {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02", "15:04:05"} {
		if v, err := time.Parse(layout, l.Lexical); err == nil {
			return v, true
		}
	}
	return time.Time{}, false
}

// Compare implements SPARQL's ORDER BY term ordering:
// unbound < blank < IRI < literal; within literals, numeric by value,
// dates by instant, otherwise by code point with language tag as a
// secondary key. Callers handle "unbound" (a missing binding) before
// calling Compare, which only ever receives two concrete Terms.
func Compare(a, b Term) int {
	ta, tb := tier(a), tier(b)
	if ta != tb {
		return sign(ta - tb)
	}
	switch ta {
	case 0:
		return compareStrings(a.(Blank).ID, b.(Blank).ID)
	case 1:
		return compareStrings(a.(IRI).Value, b.(IRI).Value)
	case 2:
		return compareLiterals(a.(Literal), b.(Literal))
	default:
		return compareStrings(a.String(), b.String())
	}
}

func compareLiterals(a, b Literal) int {
	if IsNumeric(a) && IsNumeric(b) {
		fa, _ := NumericValue(a)
		fb, _ := NumericValue(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	if IsDateTime(a) && IsDateTime(b) {
		ia, oka := InstantValue(a)
		ib, okb := InstantValue(b)
		if oka && okb {
			switch {
			case ia.Before(ib):
				return -1
			case ia.After(ib):
				return 1
			default:
				return 0
			}
		}
	}
	if c := compareStrings(a.Lexical, b.Lexical); c != 0 {
		return c
	}
	return compareStrings(a.Language, b.Language)
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func sign(i int) int {
	switch {
	case i < 0:
		return -1
	case i > 0:
		return 1
	default:
		return 0
	}
}

// SortTerms sorts a slice of terms in place using Compare, stable.
func SortTerms(terms []Term) {
	sort.SliceStable(terms, func(i, j int) bool { return Compare(terms[i], terms[j]) < 0 })
}
