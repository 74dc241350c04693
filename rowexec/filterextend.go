package rowexec

import (
	"context"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/expression"
)

// execFilter evaluates Expr per row, keeping only rows where it coerces
// to true; an evaluation error (unbound variable, type error) drops the
// row rather than propagating, per FILTER's error-tolerant semantics.
func (ex *Executor) execFilter(ctx context.Context, f algebra.Filter, scope graphScope) (Iterator, error) {
	inner, err := ex.build(ctx, f.Input, scope)
	if err != nil {
		return nil, err
	}
	return &filterIter{ex: ex, inner: inner, expr: f.Expr}, nil
}

type filterIter struct {
	ex    *Executor
	inner Iterator
	expr  algebra.Expr
}

func (it *filterIter) Next(ctx context.Context) (Solution, error) {
	for {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}
		row, err := it.inner.Next(ctx)
		if err != nil {
			return nil, err
		}
		v, err := it.ex.Eval.Eval(it.expr, row)
		if err != nil {
			continue
		}
		if b, ok := expression.EffectiveBooleanValue(v); ok && b {
			return row, nil
		}
	}
}

func (it *filterIter) Close() error { return it.inner.Close() }

// execExtend binds Expr's value to Var for each row, leaving Var unbound
// (not dropping the row) if Expr errors.
func (ex *Executor) execExtend(ctx context.Context, e algebra.Extend, scope graphScope) (Iterator, error) {
	inner, err := ex.build(ctx, e.Input, scope)
	if err != nil {
		return nil, err
	}
	return &extendIter{ex: ex, inner: inner, v: e.Var, expr: e.Expr}, nil
}

type extendIter struct {
	ex    *Executor
	inner Iterator
	v     string
	expr  algebra.Expr
}

func (it *extendIter) Next(ctx context.Context) (Solution, error) {
	row, err := it.inner.Next(ctx)
	if err != nil {
		return nil, err
	}
	next := row.Clone()
	if val, err := it.ex.Eval.Eval(it.expr, row); err == nil {
		next[it.v] = val
	}
	return next, nil
}

func (it *extendIter) Close() error { return it.inner.Close() }

// execProject restricts each row to Vars, in order; order only matters
// for top-level result serialization, not for Solution's map representation,
// so this simply deletes every variable not in Vars.
func (ex *Executor) execProject(ctx context.Context, p algebra.Project, scope graphScope) (Iterator, error) {
	inner, err := ex.build(ctx, p.Input, scope)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]bool, len(p.Vars))
	for _, v := range p.Vars {
		keep[v] = true
	}
	return &projectIter{inner: inner, keep: keep}, nil
}

type projectIter struct {
	inner Iterator
	keep  map[string]bool
}

func (it *projectIter) Next(ctx context.Context) (Solution, error) {
	row, err := it.inner.Next(ctx)
	if err != nil {
		return nil, err
	}
	out := Solution{}
	for k, v := range row {
		if it.keep[k] {
			out[k] = v
		}
	}
	return out, nil
}

func (it *projectIter) Close() error { return it.inner.Close() }
