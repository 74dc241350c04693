package aggregation

import "github.com/kbvault/sparql/term"

type sumAgg struct {
	total     float64
	isInteger bool
	seenAny   bool
}

func (s *sumAgg) Step(v term.Term) error {
	if v == nil {
		return nil
	}
	f, ok := asFloat(v)
	if !ok {
		return nil // non-numeric values are skipped, per the error-tolerant aggregate convention
	}
	if !s.seenAny {
		s.isInteger = true
	}
	s.isInteger = s.isInteger && isIntegerTerm(v)
	s.total += f
	s.seenAny = true
	return nil
}

func (s *sumAgg) Finalize() (term.Term, error) {
	return floatTerm(s.total, s.isInteger), nil
}

type avgAgg struct {
	total float64
	n     int64
}

func (a *avgAgg) Step(v term.Term) error {
	if v == nil {
		return nil
	}
	f, ok := asFloat(v)
	if !ok {
		return nil
	}
	a.total += f
	a.n++
	return nil
}

func (a *avgAgg) Finalize() (term.Term, error) {
	if a.n == 0 {
		return floatTerm(0, true), nil
	}
	return floatTerm(a.total/float64(a.n), false), nil
}
