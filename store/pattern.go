// Package store implements the in-memory RDF triple store: an indexed
// set of term.Triple values supporting insertion, deletion and
// wildcard-aware pattern matching in time proportional to the number of
// matches rather than to the size of the store.
package store

import "github.com/kbvault/sparql/term"

// Pattern describes a triple match request. A nil Subject/Predicate/Object
// acts as a wildcard. Graph selects which graph(s) to search:
//
//   - AnyGraph == true: search the default graph and every named graph.
//   - AnyGraph == false, Graph == nil: search only the default graph.
//   - AnyGraph == false, Graph != nil: search only that named graph.
type Pattern struct {
	Subject   term.Term
	Predicate term.Term
	Object    term.Term
	Graph     *term.IRI
	AnyGraph  bool
}

// MatchAll is the wildcard pattern over the default graph.
func MatchAll() Pattern { return Pattern{} }
