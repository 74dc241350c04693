// Package aggregation implements the SPARQL aggregate functions used by
// GROUP BY: each is an Init/Step/Finalize accumulator so the executor's
// Group operator can keep one accumulator alive per partition while it
// streams rows, rather than materializing every partition's full row
// set up front.
package aggregation

import (
	"github.com/kbvault/sparql/kerrors"
	"github.com/kbvault/sparql/term"
)

// Aggregator accumulates one aggregate call's values across a partition.
type Aggregator interface {
	// Step folds one row's evaluated argument value into the running
	// state. A nil value means the argument was unbound or errored for
	// this row; implementations that skip such rows do so here.
	Step(v term.Term) error
	// Finalize produces the aggregate's result after every row in the
	// partition has been stepped.
	Finalize() (term.Term, error)
}

// NewFunc builds a fresh Aggregator instance; registries hold these
// rather than Aggregator values directly since each partition needs its
// own accumulator state.
type NewFunc func() Aggregator

// Registry is a name -> constructor lookup table, mirroring package
// function's Registry shape.
type Registry struct {
	aggs map[string]NewFunc
}

func NewRegistry() *Registry {
	return &Registry{aggs: map[string]NewFunc{}}
}

func (r *Registry) Register(name string, fn NewFunc) {
	if r.aggs == nil {
		r.aggs = map[string]NewFunc{}
	}
	r.aggs[name] = fn
}

// Lookup returns a fresh Aggregator for name. configure, if non-nil, runs
// against the concrete aggregate instance before any DISTINCT wrapping
// is applied, so the caller can type-assert it to set up PERCENTILE_CONT's
// quantile (configured from a second aggregate-call argument the
// executor evaluates, not from Step values). The executor configures no
// other aggregate this way; GROUP_CONCAT keeps its single-space separator.
// distinct wraps the result so each distinct argument value is only
// stepped once, implementing SPARQL's "every aggregate honors DISTINCT"
// rule uniformly rather than each aggregate having to implement it
// itself.
func (r *Registry) Lookup(name string, distinct bool, configure func(Aggregator)) (Aggregator, bool) {
	fn, ok := r.aggs[name]
	if !ok {
		return nil, false
	}
	agg := fn()
	if configure != nil {
		configure(agg)
	}
	if distinct {
		agg = &distinctWrapper{inner: agg, seen: map[string]bool{}}
	}
	return agg, true
}

func Default() *Registry {
	r := NewRegistry()
	r.Register("COUNT", func() Aggregator { return &countAgg{} })
	r.Register("SUM", func() Aggregator { return &sumAgg{} })
	r.Register("AVG", func() Aggregator { return &avgAgg{} })
	r.Register("MIN", func() Aggregator { return &minAgg{} })
	r.Register("MAX", func() Aggregator { return &maxAgg{} })
	r.Register("SAMPLE", func() Aggregator { return &sampleAgg{} })
	r.Register("GROUP_CONCAT", func() Aggregator { return &groupConcatAgg{separator: " "} })
	r.Register("MEDIAN", func() Aggregator { return &percentileAgg{quantile: 0.5} })
	r.Register("PERCENTILE_CONT", func() Aggregator { return &percentileAgg{} })
	r.Register("VARIANCE", func() Aggregator { return &varianceAgg{} })
	r.Register("VAR_SAMP", func() Aggregator { return &varianceAgg{sample: true} })
	r.Register("STDDEV", func() Aggregator { return &varianceAgg{stddev: true} })
	r.Register("STDDEV_SAMP", func() Aggregator { return &varianceAgg{sample: true, stddev: true} })
	r.Register("MODE", func() Aggregator { return &modeAgg{} })
	return r
}

type distinctWrapper struct {
	inner Aggregator
	seen  map[string]bool
}

func (d *distinctWrapper) Step(v term.Term) error {
	if v == nil {
		return nil
	}
	key := v.String()
	if d.seen[key] {
		return nil
	}
	d.seen[key] = true
	return d.inner.Step(v)
}

func (d *distinctWrapper) Finalize() (term.Term, error) {
	return d.inner.Finalize()
}

var errNoRows = kerrors.New(kerrors.KindAggregateError, "aggregate has no input rows")
