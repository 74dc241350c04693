package rowexec

import (
	"context"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/store"
	"github.com/kbvault/sparql/term"
)

// Describe gathers d's seed resources (the literal Seeds plus, if Where
// is present, every term bound to any variable across its solutions)
// and performs a bounded breadth-first walk of the store outward from
// them. Depth nil describes one hop in both directions; Depth pointing
// at 0 returns nothing; any other Depth walks that many hops along
// outgoing edges, and Symmetric also follows incoming edges.
func (ex *Executor) Describe(ctx context.Context, d algebra.Describe) ([]term.Triple, error) {
	if d.Depth != nil && *d.Depth == 0 {
		return nil, nil
	}

	seeds := map[string]term.Term{}
	for _, s := range d.Seeds {
		if !s.IsVar() {
			seeds[s.Value.String()] = s.Value
		}
	}
	if d.Where != nil {
		it, err := ex.build(ctx, d.Where, defaultGraphScope())
		if err != nil {
			return nil, err
		}
		rows, err := drain(ctx, it)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			for _, v := range row {
				seeds[v.String()] = v
			}
		}
	}

	// An unset depth describes only the seeds' immediate neighborhood
	// (one hop, always both directions); an explicit depth walks that
	// many hops, following outgoing edges only unless Symmetric is set.
	maxHops := 1
	symmetric := true
	if d.Depth != nil {
		maxHops = *d.Depth
		symmetric = d.Symmetric
	}

	visitedTriples := map[string]bool{}
	visitedNodes := map[string]bool{}
	var out []term.Triple

	frontier := make([]term.Term, 0, len(seeds))
	for _, s := range seeds {
		frontier = append(frontier, s)
		visitedNodes[s.String()] = true
	}

	for hop := 0; len(frontier) > 0 && hop < maxHops; hop++ {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}
		var next []term.Term
		for _, node := range frontier {
			for _, tr := range ex.describeOutgoing(node) {
				if !visitedTriples[tr.Key()] {
					visitedTriples[tr.Key()] = true
					out = append(out, tr)
				}
				if !visitedNodes[tr.Object.String()] {
					visitedNodes[tr.Object.String()] = true
					next = append(next, tr.Object)
				}
			}
			if symmetric {
				for _, tr := range ex.describeIncoming(node) {
					if !visitedTriples[tr.Key()] {
						visitedTriples[tr.Key()] = true
						out = append(out, tr)
					}
					if !visitedNodes[tr.Subject.String()] {
						visitedNodes[tr.Subject.String()] = true
						next = append(next, tr.Subject)
					}
				}
			}
		}
		frontier = next
	}
	return out, nil
}

func (ex *Executor) describeOutgoing(node term.Term) []term.Triple {
	var out []term.Triple
	it := ex.Store.Match(store.Pattern{Subject: node, AnyGraph: true})
	for it.Next() {
		out = append(out, it.Triple())
	}
	return out
}

func (ex *Executor) describeIncoming(node term.Term) []term.Triple {
	var out []term.Triple
	it := ex.Store.Match(store.Pattern{Object: node, AnyGraph: true})
	for it.Next() {
		out = append(out, it.Triple())
	}
	return out
}
