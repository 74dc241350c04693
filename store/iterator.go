package store

import "github.com/kbvault/sparql/term"

// Iterator walks a materialized match result set. Match snapshots its
// result under the store's read lock so the iterator never observes a
// concurrent write, per the copy-on-read consistency guarantee.
type Iterator struct {
	triples []term.Triple
	pos     int
}

// Next advances the iterator. It must be called before the first Triple.
func (it *Iterator) Next() bool {
	if it.pos >= len(it.triples) {
		return false
	}
	it.pos++
	return true
}

// Triple returns the current triple. Valid only after Next returns true.
func (it *Iterator) Triple() term.Triple {
	return it.triples[it.pos-1]
}

// Len reports the total number of triples the iterator will yield.
func (it *Iterator) Len() int { return len(it.triples) }

// Close releases iterator resources. The in-memory iterator holds no
// external resources, so Close always succeeds; it exists to satisfy the
// same contract as iterators over non-memory-backed stores.
func (it *Iterator) Close() error { return nil }
