package rowexec

import (
	"context"
	"io"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/expression"
)

// execJoin evaluates Left fully (typically small, post-BGP-reordering)
// then streams Right per Left row, merging compatible pairs. A full
// hash join is unnecessary at this scale; the nested-loop form keeps the
// operator trivially correct and cancellable between any two rows.
func (ex *Executor) execJoin(ctx context.Context, j algebra.Join, scope graphScope) (Iterator, error) {
	leftIt, err := ex.build(ctx, j.Left, scope)
	if err != nil {
		return nil, err
	}
	leftRows, err := drain(ctx, leftIt)
	if err != nil {
		return nil, err
	}

	var out []Solution
	for _, lrow := range leftRows {
		rightIt, err := ex.build(ctx, substituteKnownVars(j.Right, lrow), scope)
		if err != nil {
			return nil, err
		}
		rightRows, err := drain(ctx, rightIt)
		if err != nil {
			return nil, err
		}
		for _, rrow := range rightRows {
			if compatible(lrow, rrow) {
				out = append(out, merge(lrow, rrow))
			}
		}
	}
	return newSliceIter(out), nil
}

// substituteKnownVars is a no-op placeholder: the executor re-evaluates
// Right from scratch per Left row rather than rewriting its algebra tree
// with bound values (simpler, and correct since BGP/Extend/Filter below
// Right will still see Left's bindings — they are not needed by Right's
// own evaluation since compatibility is checked after the fact by
// merge/compatible). Kept as a named seam in case a future optimization
// wants to push Left's bindings down as a VALUES-style pre-filter.
func substituteKnownVars(op algebra.Op, _ Solution) algebra.Op { return op }

func (ex *Executor) execLeftJoin(ctx context.Context, lj algebra.LeftJoin, scope graphScope) (Iterator, error) {
	leftIt, err := ex.build(ctx, lj.Left, scope)
	if err != nil {
		return nil, err
	}
	leftRows, err := drain(ctx, leftIt)
	if err != nil {
		return nil, err
	}

	var out []Solution
	for _, lrow := range leftRows {
		rightIt, err := ex.build(ctx, lj.Right, scope)
		if err != nil {
			return nil, err
		}
		rightRows, err := drain(ctx, rightIt)
		if err != nil {
			return nil, err
		}
		matched := false
		for _, rrow := range rightRows {
			if !compatible(lrow, rrow) {
				continue
			}
			joined := merge(lrow, rrow)
			if lj.Filter != nil {
				v, err := ex.Eval.Eval(lj.Filter, joined)
				if err != nil {
					continue
				}
				if b, ok := expression.EffectiveBooleanValue(v); !ok || !b {
					continue
				}
			}
			out = append(out, joined)
			matched = true
		}
		if !matched {
			out = append(out, lrow)
		}
	}
	return newSliceIter(out), nil
}

func (ex *Executor) execUnion(ctx context.Context, u algebra.Union, scope graphScope) (Iterator, error) {
	leftIt, err := ex.build(ctx, u.Left, scope)
	if err != nil {
		return nil, err
	}
	rightIt, err := ex.build(ctx, u.Right, scope)
	if err != nil {
		return nil, err
	}
	return &concatIter{first: leftIt, second: rightIt}, nil
}

type concatIter struct {
	first, second Iterator
	onSecond      bool
}

func (c *concatIter) Next(ctx context.Context) (Solution, error) {
	if !c.onSecond {
		row, err := c.first.Next(ctx)
		if err == nil {
			return row, nil
		}
		if err != io.EOF {
			return nil, err
		}
		c.first.Close()
		c.onSecond = true
	}
	return c.second.Next(ctx)
}

func (c *concatIter) Close() error {
	if !c.onSecond {
		c.first.Close()
	}
	return c.second.Close()
}

// execMinus removes every Left row compatible with some Right row that
// shares at least one variable with it (SPARQL MINUS semantics: rows
// with disjoint variable sets never eliminate each other).
func (ex *Executor) execMinus(ctx context.Context, m algebra.Minus, scope graphScope) (Iterator, error) {
	leftIt, err := ex.build(ctx, m.Left, scope)
	if err != nil {
		return nil, err
	}
	leftRows, err := drain(ctx, leftIt)
	if err != nil {
		return nil, err
	}
	rightIt, err := ex.build(ctx, m.Right, scope)
	if err != nil {
		return nil, err
	}
	rightRows, err := drain(ctx, rightIt)
	if err != nil {
		return nil, err
	}

	var out []Solution
	for _, lrow := range leftRows {
		excluded := false
		for _, rrow := range rightRows {
			if sharesVariable(lrow, rrow) && compatible(lrow, rrow) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, lrow)
		}
	}
	return newSliceIter(out), nil
}

func sharesVariable(a, b Solution) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
