package aggregation

import (
	"math"

	"github.com/kbvault/sparql/term"
)

// varianceAgg implements VARIANCE/VAR_SAMP/STDDEV/STDDEV_SAMP, all the
// same two-pass computation (mean then sum of squared deviations) gated
// by the sample/stddev flags.
type varianceAgg struct {
	sample bool
	stddev bool
	values []float64
}

func (v *varianceAgg) Step(t term.Term) error {
	f, ok := asFloat(t)
	if !ok {
		return nil
	}
	v.values = append(v.values, f)
	return nil
}

func (v *varianceAgg) Finalize() (term.Term, error) {
	n := len(v.values)
	if n == 0 {
		return nil, errNoRows
	}
	var mean float64
	for _, x := range v.values {
		mean += x
	}
	mean /= float64(n)

	var sumSq float64
	for _, x := range v.values {
		d := x - mean
		sumSq += d * d
	}

	divisor := float64(n)
	if v.sample {
		if n < 2 {
			return nil, errNoRows
		}
		divisor = float64(n - 1)
	}
	result := sumSq / divisor
	if v.stddev {
		result = math.Sqrt(result)
	}
	return floatTerm(result, false), nil
}
