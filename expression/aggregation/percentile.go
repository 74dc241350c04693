package aggregation

import (
	"math"
	"sort"

	"github.com/kbvault/sparql/term"
)

// percentileAgg implements MEDIAN (quantile 0.5) and PERCENTILE_CONT,
// buffering every value seen since a quantile cannot be computed
// incrementally. The executor configures quantile for PERCENTILE_CONT
// from the aggregate call's second argument; MEDIAN is registered with
// it pre-set to 0.5.
type percentileAgg struct {
	quantile float64
	values   []float64
}

func (p *percentileAgg) Step(v term.Term) error {
	f, ok := asFloat(v)
	if !ok {
		return nil
	}
	p.values = append(p.values, f)
	return nil
}

// SetQuantile overrides the target quantile (0..1) for PERCENTILE_CONT.
func (p *percentileAgg) SetQuantile(q float64) {
	p.quantile = q
}

func (p *percentileAgg) Finalize() (term.Term, error) {
	if len(p.values) == 0 {
		return nil, errNoRows
	}
	sort.Float64s(p.values)
	result := linearInterpolatedQuantile(p.values, p.quantile)
	return floatTerm(result, false), nil
}

// linearInterpolatedQuantile is the PERCENTILE_CONT ("continuous")
// method: linear interpolation between the two nearest ranks, matching
// common SQL PERCENTILE_CONT semantics.
func linearInterpolatedQuantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
