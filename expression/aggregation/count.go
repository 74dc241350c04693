package aggregation

import "github.com/kbvault/sparql/term"

// countAgg implements COUNT(expr) and COUNT(*) alike: the executor
// passes a non-nil sentinel term for COUNT(*) rows regardless of any
// single variable's binding, so Step here only needs to count non-nil
// values.
type countAgg struct {
	n int64
}

func (c *countAgg) Step(v term.Term) error {
	if v != nil {
		c.n++
	}
	return nil
}

func (c *countAgg) Finalize() (term.Term, error) {
	return floatTerm(float64(c.n), true), nil
}
