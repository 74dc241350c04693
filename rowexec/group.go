package rowexec

import (
	"context"
	"strconv"
	"strings"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/expression/aggregation"
	"github.com/kbvault/sparql/kerrors"
	"github.com/kbvault/sparql/term"
)

// execGroup partitions Input's rows by Keys and drives one Aggregator per
// AggregateBinding per partition. An empty Keys list (no GROUP BY but an
// aggregate present) is the single-partition case: every row, including
// zero rows, folds into one group.
func (ex *Executor) execGroup(ctx context.Context, g algebra.Group, scope graphScope) (Iterator, error) {
	inner, err := ex.build(ctx, g.Input, scope)
	if err != nil {
		return nil, err
	}
	rows, err := drain(ctx, inner)
	if err != nil {
		return nil, err
	}

	type partition struct {
		keyRow Solution // the key variables' bindings, seeded into the output row
		aggs   []aggregation.Aggregator
	}
	order := []string{}
	partitions := map[string]*partition{}

	newPartition := func(keyRow Solution) (*partition, error) {
		aggs := make([]aggregation.Aggregator, len(g.Aggregates))
		for i, ab := range g.Aggregates {
			call, ok := ab.Call.(algebra.CallExpr)
			if !ok {
				return nil, kerrors.New(kerrors.KindInternal, "aggregate binding's Call is not a CallExpr")
			}
			var configure func(aggregation.Aggregator)
			if call.Name == "PERCENTILE_CONT" && len(call.Args) > 1 {
				if q, err := ex.Eval.Eval(call.Args[1], Solution{}); err == nil {
					if qn, ok := asFloatLiteral(q); ok {
						configure = func(a aggregation.Aggregator) {
							if p, ok := a.(interface{ SetQuantile(float64) }); ok {
								p.SetQuantile(qn)
							}
						}
					}
				}
			}
			agg, ok := ex.Aggregates.Lookup(call.Name, call.Distinct, configure)
			if !ok {
				return nil, kerrors.New(kerrors.KindUnsupportedFeature, "unknown aggregate "+call.Name)
			}
			aggs[i] = agg
		}
		return &partition{keyRow: keyRow, aggs: aggs}, nil
	}

	for _, row := range rows {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}
		keyRow := Solution{}
		var keyParts []string
		for i, k := range g.Keys {
			v, err := ex.Eval.Eval(k, row)
			if err != nil {
				v = nil
			}
			if te, ok := k.(algebra.TermExpr); ok && te.Term.IsVar() && v != nil {
				keyRow[te.Term.Var] = v
			}
			if v == nil {
				keyParts = append(keyParts, "\x01undef\x01"+itoa(i))
			} else {
				keyParts = append(keyParts, v.String())
			}
		}
		key := strings.Join(keyParts, "\x00")

		p, ok := partitions[key]
		if !ok {
			var err error
			p, err = newPartition(keyRow)
			if err != nil {
				return nil, err
			}
			partitions[key] = p
			order = append(order, key)
		}

		for i, ab := range g.Aggregates {
			call := ab.Call.(algebra.CallExpr)
			var v term.Term
			if len(call.Args) == 0 {
				v = countStarSentinel
			} else {
				v, err = ex.Eval.Eval(call.Args[0], row)
				if err != nil {
					v = nil
				}
			}
			if err := p.aggs[i].Step(v); err != nil {
				return nil, err
			}
		}
	}

	// No input rows and no grouping keys still produces one group (e.g.
	// SELECT COUNT(*) WHERE {...} with no matches yields 0, not zero rows).
	if len(rows) == 0 && len(g.Keys) == 0 {
		p, err := newPartition(Solution{})
		if err != nil {
			return nil, err
		}
		order = append(order, "")
		partitions[""] = p
	}

	out := make([]Solution, 0, len(order))
	for _, key := range order {
		p := partitions[key]
		result := p.keyRow.Clone()
		for i, ab := range g.Aggregates {
			val, err := p.aggs[i].Finalize()
			if err != nil {
				continue // leave the aggregate's binding unbound, per error-tolerant aggregate semantics
			}
			result[ab.Var] = val
		}
		out = append(out, result)
	}
	return newSliceIter(out), nil
}

// countStarSentinel is the non-nil value COUNT(*) steps once per row,
// independent of any particular variable's binding.
var countStarSentinel term.Term = term.NewString("*")

func asFloatLiteral(t term.Term) (float64, bool) {
	lit, ok := t.(term.Literal)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(lit.Lexical, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
