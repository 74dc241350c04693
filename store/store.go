package store

import (
	"sync"

	"github.com/kbvault/sparql/term"
)

// Store is the in-memory triple store. It is safe for concurrent readers;
// writers (Add/AddAll/Delete) take an exclusive lock so pending iterators
// never observe a mid-update tear, per the concurrency model: readers may
// run concurrently with each other, but a write serializes against all
// readers and writers.
type Store struct {
	mu      sync.RWMutex
	triples map[string]term.Triple
	spo     *quadIndex
	pos     *quadIndex
	osp     *quadIndex
	graphs  map[string]int // named graph IRI -> triple count, for NamedGraphs/Count
}

// New returns an empty store.
func New() *Store {
	return &Store{
		triples: make(map[string]term.Triple),
		spo:     newQuadIndex([3]position{posS, posP, posO}),
		pos:     newQuadIndex([3]position{posP, posO, posS}),
		osp:     newQuadIndex([3]position{posO, posS, posP}),
		graphs:  make(map[string]int),
	}
}

// Add inserts a triple. Inserting an already-present (subject, predicate,
// object, graph) tuple is a no-op, maintaining the set invariant.
func (s *Store) Add(t term.Triple) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(t)
}

func (s *Store) addLocked(t term.Triple) {
	key := t.Key()
	if _, exists := s.triples[key]; exists {
		return
	}
	s.triples[key] = t
	s.spo.insert(t)
	s.pos.insert(t)
	s.osp.insert(t)
	if t.Graph != nil {
		s.graphs[t.Graph.Value]++
	}
}

// AddAll inserts many triples under a single exclusive lock acquisition.
func (s *Store) AddAll(ts []term.Triple) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range ts {
		s.addLocked(t)
	}
}

// Delete removes a specific triple, if present.
func (s *Store) Delete(t term.Triple) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := t.Key()
	if _, exists := s.triples[key]; !exists {
		return
	}
	delete(s.triples, key)
	s.spo.delete(t)
	s.pos.delete(t)
	s.osp.delete(t)
	if t.Graph != nil {
		s.graphs[t.Graph.Value]--
		if s.graphs[t.Graph.Value] <= 0 {
			delete(s.graphs, t.Graph.Value)
		}
	}
}

// Match returns every triple matching the pattern. The wildcard position
// with a bound term, if any, selects the backing index (subject-bound >
// predicate-bound > object-bound), so the walk cost is proportional to
// the result size plus a small constant, not to store size.
func (s *Store) Match(p Pattern) *Iterator {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := selectIndex(p, s.spo, s.pos, s.osp)
	var results []term.Triple
	idx.scan(p, func(t term.Triple) bool {
		results = append(results, t)
		return true
	})
	return &Iterator{triples: results}
}

// Count returns the number of distinct triples in the store.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.triples)
}

// NamedGraphs returns every named graph IRI with at least one triple.
func (s *Store) NamedGraphs() []term.IRI {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]term.IRI, 0, len(s.graphs))
	for g := range s.graphs {
		out = append(out, term.IRI{Value: g})
	}
	return out
}

// PredicateFrequency samples how many triples use the given predicate in
// the default graph and all named graphs, used by the optimizer's
// selectivity-based BGP reordering when tie-breaking by predicate
// popularity.
func (s *Store) PredicateFrequency(p term.IRI) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	s.pos.scan(Pattern{Predicate: p, AnyGraph: true}, func(term.Triple) bool {
		n++
		return true
	})
	return n
}
