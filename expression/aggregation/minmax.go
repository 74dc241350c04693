package aggregation

import (
	"strings"
	"time"

	"github.com/kbvault/sparql/term"
)

const xsdDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"

// compareTerms is a narrow ordering comparator for MIN/MAX: numeric by
// value, dateTime by instant, otherwise lexical on the string form. It
// deliberately doesn't reproduce the full SPARQL term-ordering rules
// (that lives in package expression, which aggregation must not import)
// since MIN/MAX only need a total order, not ORDER BY's exact one.
func compareTerms(a, b term.Term) int {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	if at, aok := asDateTimeValue(a); aok {
		if bt, bok := asDateTimeValue(b); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(a.String(), b.String())
}

func asDateTimeValue(t term.Term) (time.Time, bool) {
	lit, ok := t.(term.Literal)
	if !ok || lit.EffectiveDatatype() != xsdDateTime {
		return time.Time{}, false
	}
	tm, err := time.Parse(time.RFC3339Nano, lit.Lexical)
	if err != nil {
		return time.Time{}, false
	}
	return tm, true
}

type minAgg struct {
	best  term.Term
	valid bool
}

func (m *minAgg) Step(v term.Term) error {
	if v == nil {
		return nil
	}
	if !m.valid || compareTerms(v, m.best) < 0 {
		m.best = v
		m.valid = true
	}
	return nil
}

func (m *minAgg) Finalize() (term.Term, error) {
	if !m.valid {
		return nil, errNoRows
	}
	return m.best, nil
}

type maxAgg struct {
	best  term.Term
	valid bool
}

func (m *maxAgg) Step(v term.Term) error {
	if v == nil {
		return nil
	}
	if !m.valid || compareTerms(v, m.best) > 0 {
		m.best = v
		m.valid = true
	}
	return nil
}

func (m *maxAgg) Finalize() (term.Term, error) {
	if !m.valid {
		return nil, errNoRows
	}
	return m.best, nil
}

type sampleAgg struct {
	v     term.Term
	valid bool
}

func (s *sampleAgg) Step(v term.Term) error {
	if v == nil || s.valid {
		return nil
	}
	s.v = v
	s.valid = true
	return nil
}

func (s *sampleAgg) Finalize() (term.Term, error) {
	if !s.valid {
		return nil, errNoRows
	}
	return s.v, nil
}
