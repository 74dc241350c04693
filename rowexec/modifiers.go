package rowexec

import (
	"context"
	"sort"
	"strings"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/term"
)

// execOrderBy materializes Input and stably sorts it by Conditions, using
// term.Compare's total SPARQL term order (distinct from the error-aware
// comparator FILTER's < and > use, since ORDER BY must place every term
// somewhere even across incomparable types). A condition whose Expr
// errors on a row sorts that row's value as unbound, placed first.
func (ex *Executor) execOrderBy(ctx context.Context, ob algebra.OrderBy, scope graphScope) (Iterator, error) {
	inner, err := ex.build(ctx, ob.Input, scope)
	if err != nil {
		return nil, err
	}
	rows, err := drain(ctx, inner)
	if err != nil {
		return nil, err
	}

	keys := make([][]term.Term, len(rows))
	for i, row := range rows {
		key := make([]term.Term, len(ob.Conditions))
		for j, c := range ob.Conditions {
			v, err := ex.Eval.Eval(c.Expr, row)
			if err != nil {
				v = nil
			}
			key[j] = v
		}
		keys[i] = key
	}

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		for j, c := range ob.Conditions {
			cmp := compareOrderKeys(ka[j], kb[j])
			if c.Desc {
				cmp = -cmp
			}
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})

	out := make([]Solution, len(rows))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return newSliceIter(out), nil
}

// compareOrderKeys places an unbound/errored value (nil) before every
// bound term, then falls back to term.Compare's total order.
func compareOrderKeys(a, b term.Term) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	return term.Compare(a, b)
}

// execSlice drops Offset rows then takes at most Limit (negative means
// unbounded).
func (ex *Executor) execSlice(ctx context.Context, s algebra.Slice, scope graphScope) (Iterator, error) {
	inner, err := ex.build(ctx, s.Input, scope)
	if err != nil {
		return nil, err
	}
	rows, err := drain(ctx, inner)
	if err != nil {
		return nil, err
	}
	if s.Offset > 0 {
		if s.Offset >= len(rows) {
			rows = nil
		} else {
			rows = rows[s.Offset:]
		}
	}
	if s.Limit >= 0 && s.Limit < len(rows) {
		rows = rows[:s.Limit]
	}
	return newSliceIter(rows), nil
}

// execDistinct deduplicates rows by full term-wise solution equality,
// keyed by a canonical string built from each bound variable's name and
// String() representation, sorted so map iteration order never affects
// the key.
func (ex *Executor) execDistinct(ctx context.Context, d algebra.Distinct, scope graphScope) (Iterator, error) {
	inner, err := ex.build(ctx, d.Input, scope)
	if err != nil {
		return nil, err
	}
	rows, err := drain(ctx, inner)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []Solution
	for _, row := range rows {
		key := solutionKey(row)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return newSliceIter(out), nil
}

func solutionKey(row Solution) string {
	names := make([]string, 0, len(row))
	for k := range row {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, k := range names {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(row[k].String())
		b.WriteByte('\x00')
	}
	return b.String()
}
