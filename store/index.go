package store

import "github.com/kbvault/sparql/term"

// quadIndex is a four-level nested map over one permutation of
// (subject, predicate, object) plus a trailing graph level. Three
// quadIndex instances (SPO, POS, OSP) let Match descend through whichever
// positions the caller bound first, so a lookup costs O(1) per bound
// position plus fan-out equal to the true match count — never the size
// of the whole store.
type quadIndex struct {
	order [3]position
	root  map[string]map[string]map[string]map[string]term.Triple
}

type position int

const (
	posS position = iota
	posP
	posO
)

func newQuadIndex(order [3]position) *quadIndex {
	return &quadIndex{
		order: order,
		root:  make(map[string]map[string]map[string]map[string]term.Triple),
	}
}

func keyFor(pos position, t term.Triple) string {
	switch pos {
	case posS:
		return t.Subject.String()
	case posP:
		return t.Predicate.String()
	default:
		return t.Object.String()
	}
}

func graphKey(g *term.IRI) string {
	if g == nil {
		return ""
	}
	return g.String()
}

func (idx *quadIndex) insert(t term.Triple) {
	k1 := keyFor(idx.order[0], t)
	k2 := keyFor(idx.order[1], t)
	k3 := keyFor(idx.order[2], t)
	gk := graphKey(t.Graph)

	l2, ok := idx.root[k1]
	if !ok {
		l2 = make(map[string]map[string]map[string]term.Triple)
		idx.root[k1] = l2
	}
	l3, ok := l2[k2]
	if !ok {
		l3 = make(map[string]map[string]term.Triple)
		l2[k2] = l3
	}
	l4, ok := l3[k3]
	if !ok {
		l4 = make(map[string]term.Triple)
		l3[k3] = l4
	}
	l4[gk] = t
}

func (idx *quadIndex) delete(t term.Triple) {
	k1 := keyFor(idx.order[0], t)
	k2 := keyFor(idx.order[1], t)
	k3 := keyFor(idx.order[2], t)
	gk := graphKey(t.Graph)

	l2, ok := idx.root[k1]
	if !ok {
		return
	}
	l3, ok := l2[k2]
	if !ok {
		return
	}
	l4, ok := l3[k3]
	if !ok {
		return
	}
	delete(l4, gk)
	if len(l4) == 0 {
		delete(l3, k3)
	}
	if len(l3) == 0 {
		delete(l2, k2)
	}
	if len(l2) == 0 {
		delete(idx.root, k1)
	}
}

// patternKey returns the bound-term key for a pattern position, and
// whether that position is bound.
func patternKeyFor(pos position, p Pattern) (string, bool) {
	var t term.Term
	switch pos {
	case posS:
		t = p.Subject
	case posP:
		t = p.Predicate
	default:
		t = p.Object
	}
	if t == nil {
		return "", false
	}
	return t.String(), true
}

// scan walks the index according to the pattern, emitting every matching
// triple to yield. It stops early if yield returns false.
func (idx *quadIndex) scan(p Pattern, yield func(term.Triple) bool) {
	k1, bound1 := patternKeyFor(idx.order[0], p)
	var l2m map[string]map[string]map[string]term.Triple
	if bound1 {
		if m, ok := idx.root[k1]; ok {
			l2m = map[string]map[string]map[string]term.Triple{k1: m}
		} else {
			return
		}
	} else {
		l2m = idx.root
	}

	k2, bound2 := patternKeyFor(idx.order[1], p)
	for _, l2 := range l2m {
		var l3m map[string]map[string]term.Triple
		if bound2 {
			m, ok := l2[k2]
			if !ok {
				continue
			}
			l3m = map[string]map[string]term.Triple{k2: m}
		} else {
			l3m = l2
		}

		k3, bound3 := patternKeyFor(idx.order[2], p)
		for _, l3 := range l3m {
			var l4m map[string]term.Triple
			if bound3 {
				m, ok := l3[k3]
				if !ok {
					continue
				}
				l4m = map[string]term.Triple{k3: m}
			} else {
				l4m = l3
			}

			if !p.AnyGraph {
				gk := graphKey(p.Graph)
				t, ok := l4m[gk]
				if !ok {
					continue
				}
				if !yield(t) {
					return
				}
				continue
			}
			for _, t := range l4m {
				if !yield(t) {
					return
				}
			}
		}
	}
}

// selectivity picks the index order whose leading bound positions give
// the narrowest descent, per the optimizer's selectivity estimate:
// subject-bound > predicate-bound > object-bound.
func selectIndex(p Pattern, spo, posIdx, osp *quadIndex) *quadIndex {
	switch {
	case p.Subject != nil:
		return spo
	case p.Predicate != nil:
		return posIdx
	case p.Object != nil:
		return osp
	default:
		return spo
	}
}
