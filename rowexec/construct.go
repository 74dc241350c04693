package rowexec

import (
	"context"
	"io"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/term"
)

// Construct evaluates c's WHERE clause and instantiates Template once
// per solution, discarding any instantiated triple with an unbound slot
// rather than erroring the whole query, and eliminating duplicates.
func (ex *Executor) Construct(ctx context.Context, c algebra.Construct) ([]term.Triple, error) {
	it, err := ex.build(ctx, c.Where, defaultGraphScope())
	if err != nil {
		return nil, err
	}
	defer it.Close()

	seen := map[string]bool{}
	var out []term.Triple
	for {
		row, err := it.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, tp := range c.Template {
			tr, ok := instantiateTemplate(tp, row)
			if !ok {
				continue
			}
			key := tr.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, tr)
		}
	}
	return out, nil
}

func instantiateTemplate(tp algebra.TriplePattern, row Solution) (term.Triple, bool) {
	subj, ok := instantiateTerm(tp.Subject, row)
	if !ok {
		return term.Triple{}, false
	}
	pt, ok := tp.Predicate.(algebra.PathTerm)
	if !ok {
		return term.Triple{}, false
	}
	pred, ok := instantiateTerm(pt.Term, row)
	if !ok {
		return term.Triple{}, false
	}
	predIRI, ok := pred.(term.IRI)
	if !ok {
		return term.Triple{}, false
	}
	obj, ok := instantiateTerm(tp.Object, row)
	if !ok {
		return term.Triple{}, false
	}
	return term.Triple{Subject: subj, Predicate: predIRI, Object: obj}, true
}

func instantiateTerm(t algebra.Term, row Solution) (term.Term, bool) {
	if !t.IsVar() {
		return t.Value, true
	}
	return row.Get(t.Var)
}
