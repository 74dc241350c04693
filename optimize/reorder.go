package optimize

import (
	"sort"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/store"
	"github.com/kbvault/sparql/term"
)

// reorderBGP sorts a BGP's patterns by estimated selectivity: more
// bound positions first (subject > predicate > object), ties broken by
// predicate popularity sampled from st (if available and the predicate
// is a constant IRI), then original source order. Reordering within a
// BGP never changes its result set or duplicate count, only the order
// matches are attempted in.
func reorderBGP(bgp algebra.BGP, st *store.Store) algebra.BGP {
	if len(bgp.Patterns) < 2 {
		return bgp
	}
	patterns := append([]algebra.TriplePattern(nil), bgp.Patterns...)
	idx := make([]int, len(patterns))
	scores := make([]int, len(patterns))
	for i, tp := range patterns {
		idx[i] = i
		scores[i] = selectivityScore(tp, st)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] < scores[idx[b]]
	})
	out := make([]algebra.TriplePattern, len(patterns))
	for i, j := range idx {
		out[i] = patterns[j]
	}
	return algebra.BGP{Patterns: out}
}

// selectivityScore is lower for more selective (narrower) patterns, so
// sorting ascending puts the most selective pattern first.
func selectivityScore(tp algebra.TriplePattern, st *store.Store) int {
	score := 0
	if tp.Subject.IsVar() {
		score += 100
	}
	predTerm, predBound := boundPathTerm(tp.Predicate)
	if !predBound {
		score += 50 // composed or variable paths: treated as unbound/expensive
	} else if freq, ok := predicateFreq(st, predTerm); ok {
		score += clampFreq(freq)
	}
	if tp.Object.IsVar() {
		score += 10
	}
	return score
}

// boundPathTerm reports the algebra term a PathTerm wraps, and whether
// the path is in fact a single bound (non-variable) term.
func boundPathTerm(p algebra.Path) (algebra.Term, bool) {
	pt, ok := p.(algebra.PathTerm)
	if !ok || pt.Term.IsVar() {
		return algebra.Term{}, false
	}
	return pt.Term, true
}

func predicateFreq(st *store.Store, t algebra.Term) (int, bool) {
	if st == nil {
		return 0, false
	}
	iri, ok := t.Value.(term.IRI)
	if !ok {
		return 0, false
	}
	return st.PredicateFrequency(iri), true
}

func clampFreq(n int) int {
	if n > 9 {
		return 9
	}
	return n
}
