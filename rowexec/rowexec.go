// Package rowexec evaluates an optimized algebra tree against a
// store.Store, producing a stream of solution mappings. Each algebra.Op
// compiles to an Iterator. Join, LeftJoin and LateralJoin read their
// Left child in full and evaluate their Right child again for every
// Left row; Minus reads both children in full; Union yields Left's rows
// and then Right's. A CancelToken can abort a long-running query
// between any two produced rows.
package rowexec

import (
	"context"
	"io"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/expression"
	"github.com/kbvault/sparql/expression/aggregation"
	"github.com/kbvault/sparql/expression/function"
	"github.com/kbvault/sparql/kerrors"
	"github.com/kbvault/sparql/store"
	"github.com/kbvault/sparql/term"
)

// Solution is one binding of variables to terms. A variable absent from
// the map is unbound, distinct from being bound to nil.
type Solution map[string]term.Term

// Clone returns an independent copy, used wherever a Solution is about
// to be extended along more than one branch (OPTIONAL, UNION, BGP
// backtracking).
func (s Solution) Clone() Solution {
	out := make(Solution, len(s)+2)
	for k, v := range s {
		out[k] = v
	}
	return out
}

func (s Solution) Get(name string) (term.Term, bool) {
	v, ok := s[name]
	return v, ok
}

// Variables returns the names this solution binds, in no particular
// order, the "variables() view" every solution mapping exposes.
func (s Solution) Variables() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}

// compatible reports whether a and b agree on every variable they share,
// the join condition for Join/merge.
func compatible(a, b Solution) bool {
	for k, v := range a {
		if ov, ok := b[k]; ok && !v.Equals(ov) {
			return false
		}
	}
	return true
}

// merge combines a and b, assumed compatible; b's bindings win only for
// variables a does not already bind.
func merge(a, b Solution) Solution {
	out := a.Clone()
	for k, v := range b {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// Iterator streams Solutions. Next returns io.EOF once exhausted.
// Implementations check ctx.Err() before doing any work, so a cancelled
// or timed-out context surfaces promptly between rows rather than only
// at the next blocking call.
type Iterator interface {
	Next(ctx context.Context) (Solution, error)
	Close() error
}

// CancelToken wraps the context.Context every operator's Next consults,
// named and kept distinct from a bare context.Context per the
// concurrency model's operator contract.
type CancelToken struct {
	context.Context
}

func checkCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return kerrors.Wrap(kerrors.KindCancelled, err, "query cancelled")
	}
	return nil
}

// sliceIter is an Iterator over a pre-materialized, already-computed
// slice of solutions; used by operators whose output must be fully
// known before the first row can be produced (OrderBy, Distinct, Group,
// Slice) or whose source is already a small fixed set (Values, BGP
// single-pattern scans).
type sliceIter struct {
	rows []Solution
	pos  int
}

func newSliceIter(rows []Solution) *sliceIter { return &sliceIter{rows: rows} }

func (s *sliceIter) Next(ctx context.Context) (Solution, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func (s *sliceIter) Close() error { return nil }

// drain collects every row an iterator produces. Used where an operator
// genuinely needs the full input materialized (sorting, grouping,
// deduplicating, the right side of a lateral join's per-row re-eval).
func drain(ctx context.Context, it Iterator) ([]Solution, error) {
	defer it.Close()
	var out []Solution
	for {
		row, err := it.Next(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
}

// graphScope is the ambient named-graph restriction threaded through
// compilation: GRAPH changes it for its subtree, BGP reads it to build
// each store.Pattern. This mirrors the translator's decision to keep
// GRAPH as a wrapping algebra.Graph node rather than stamping every
// nested TriplePattern, so the executor carries the restriction instead
// of the algebra tree.
type graphScope struct {
	iri      *term.IRI
	anyGraph bool
}

func defaultGraphScope() graphScope { return graphScope{} }

// Executor compiles and runs algebra trees against one store. It holds
// no per-query mutable state, so one Executor can serve concurrent
// queries (the store itself is read/write-lock protected; Executor adds
// no further shared state on top of it).
type Executor struct {
	Store      *store.Store
	Eval       *expression.Evaluator
	Aggregates *aggregation.Registry
	Service    ServiceAdapter
}

// Config bundles an Executor's dependencies; New wires the default
// registries the way engine construction is expected to, per the
// "no package-level global" rule.
type Config struct {
	Store      *store.Store
	Functions  *function.Registry
	Aggregates *aggregation.Registry
	Service    ServiceAdapter
}

// New builds an Executor and its Evaluator together, since the Evaluator
// needs the Executor as its PatternExister (EXISTS/NOT EXISTS evaluate a
// nested pattern through the very same executor) — the two are
// constructed as a pair to avoid a chicken-and-egg initialization order.
func New(cfg Config) *Executor {
	if cfg.Aggregates == nil {
		cfg.Aggregates = aggregation.Default()
	}
	if cfg.Service == nil {
		cfg.Service = unsupportedServiceAdapter{}
	}
	ex := &Executor{Store: cfg.Store, Aggregates: cfg.Aggregates, Service: cfg.Service}
	eval := &expression.Evaluator{Functions: cfg.Functions, Exists: ex}
	if eval.Functions == nil {
		eval.Functions = function.Default()
	}
	ex.Eval = eval
	return ex
}

// Execute compiles op and returns its solution stream.
func (ex *Executor) Execute(ctx context.Context, op algebra.Op) (Iterator, error) {
	return ex.build(ctx, op, defaultGraphScope())
}

// Exists implements expression.PatternExister: it runs pattern on its
// own, without env's bindings, and reports whether at least one of its
// solutions is compatible with env.
func (ex *Executor) Exists(pattern algebra.Op, env expression.Env) (bool, error) {
	ctx := context.Background()
	seed, ok := env.(Solution)
	if !ok {
		seed = Solution{}
	}
	it, err := ex.build(ctx, pattern, defaultGraphScope())
	if err != nil {
		return false, err
	}
	defer it.Close()
	for {
		row, err := it.Next(ctx)
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if compatible(seed, row) {
			return true, nil
		}
	}
}

func (ex *Executor) build(ctx context.Context, op algebra.Op, scope graphScope) (Iterator, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	switch v := op.(type) {
	case algebra.BGP:
		return ex.execBGP(ctx, v, scope)
	case algebra.Join:
		return ex.execJoin(ctx, v, scope)
	case algebra.LeftJoin:
		return ex.execLeftJoin(ctx, v, scope)
	case algebra.Union:
		return ex.execUnion(ctx, v, scope)
	case algebra.Minus:
		return ex.execMinus(ctx, v, scope)
	case algebra.Values:
		return ex.execValues(v)
	case algebra.Filter:
		return ex.execFilter(ctx, v, scope)
	case algebra.Extend:
		return ex.execExtend(ctx, v, scope)
	case algebra.Project:
		return ex.execProject(ctx, v, scope)
	case algebra.OrderBy:
		return ex.execOrderBy(ctx, v, scope)
	case algebra.Slice:
		return ex.execSlice(ctx, v, scope)
	case algebra.Distinct:
		return ex.execDistinct(ctx, v, scope)
	case algebra.Reduced:
		return ex.build(ctx, v.Input, scope)
	case algebra.Group:
		return ex.execGroup(ctx, v, scope)
	case algebra.Subquery:
		return ex.build(ctx, v.Inner, scope)
	case algebra.LateralJoin:
		return ex.execLateralJoin(ctx, v, scope)
	case algebra.Service:
		return ex.execService(ctx, v, scope)
	case algebra.Graph:
		return ex.execGraph(ctx, v, scope)
	default:
		return nil, kerrors.New(kerrors.KindUnsupportedFeature, "executor: unhandled algebra node")
	}
}
