package rowexec

import (
	"context"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/term"
)

// execGraph restricts Input's evaluation to one named graph. A fixed
// IRI narrows graphScope directly; a variable graph name instead runs
// Input once per graph the store actually has triples in, binding the
// variable to each graph IRI in turn and merging it into every result
// row — the translator leaves TriplePattern.Graph/GraphVar unpopulated
// by design, so this ambient scope is the only place that restriction
// is enforced.
func (ex *Executor) execGraph(ctx context.Context, g algebra.Graph, scope graphScope) (Iterator, error) {
	if !g.Name.IsVar() {
		iri, ok := g.Name.Value.(term.IRI)
		if !ok {
			return newSliceIter(nil), nil
		}
		inner, err := ex.build(ctx, g.Input, graphScope{iri: &iri})
		if err != nil {
			return nil, err
		}
		return inner, nil
	}

	var out []Solution
	for _, iri := range ex.Store.NamedGraphs() {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}
		inner, err := ex.build(ctx, g.Input, graphScope{iri: &iri})
		if err != nil {
			return nil, err
		}
		rows, err := drain(ctx, inner)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			next := row.Clone()
			if !bindVar(next, g.Name.Var, iri) {
				continue
			}
			out = append(out, next)
		}
	}
	return newSliceIter(out), nil
}
