package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kbvault/sparql/term"
)

func iri(s string) term.IRI { return term.IRI{Value: s} }

func TestAddAndMatchExact(t *testing.T) {
	s := New()
	tr := term.Triple{Subject: iri("urn:a"), Predicate: iri("urn:knows"), Object: iri("urn:b")}
	s.Add(tr)

	require.Equal(t, 1, s.Count())

	it := s.Match(Pattern{Subject: iri("urn:a")})
	require.True(t, it.Next())
	require.True(t, tr.Equals(it.Triple()))
	require.False(t, it.Next())
}

func TestAddIsIdempotent(t *testing.T) {
	s := New()
	tr := term.Triple{Subject: iri("urn:a"), Predicate: iri("urn:p"), Object: iri("urn:b")}
	s.Add(tr)
	s.Add(tr)
	require.Equal(t, 1, s.Count())
}

func TestDeleteRemovesFromAllIndices(t *testing.T) {
	s := New()
	tr := term.Triple{Subject: iri("urn:a"), Predicate: iri("urn:p"), Object: iri("urn:b")}
	s.Add(tr)
	s.Delete(tr)

	require.Equal(t, 0, s.Count())
	require.False(t, s.Match(Pattern{Subject: iri("urn:a")}).Next())
	require.False(t, s.Match(Pattern{Predicate: iri("urn:p")}).Next())
	require.False(t, s.Match(Pattern{Object: iri("urn:b")}).Next())
}

func TestMatchWildcard(t *testing.T) {
	s := New()
	s.AddAll([]term.Triple{
		{Subject: iri("urn:a"), Predicate: iri("urn:knows"), Object: iri("urn:b")},
		{Subject: iri("urn:b"), Predicate: iri("urn:knows"), Object: iri("urn:c")},
		{Subject: iri("urn:c"), Predicate: iri("urn:knows"), Object: iri("urn:d")},
	})

	it := s.Match(Pattern{Predicate: iri("urn:knows")})
	require.Equal(t, 3, it.Len())
}

func TestNamedGraphScoping(t *testing.T) {
	s := New()
	g1 := iri("urn:g1")
	s.Add(term.Triple{Subject: iri("urn:a"), Predicate: iri("urn:p"), Object: iri("urn:b"), Graph: &g1})
	s.Add(term.Triple{Subject: iri("urn:x"), Predicate: iri("urn:p"), Object: iri("urn:y")}) // default graph

	require.False(t, s.Match(Pattern{Subject: iri("urn:a")}).Next(), "default-graph-only match should miss named-graph triple")

	it := s.Match(Pattern{Subject: iri("urn:a"), Graph: &g1})
	require.True(t, it.Next())

	anyGraph := s.Match(Pattern{Predicate: iri("urn:p"), AnyGraph: true})
	require.Equal(t, 2, anyGraph.Len())

	graphs := s.NamedGraphs()
	require.Len(t, graphs, 1)
	require.Equal(t, "urn:g1", graphs[0].Value)
}

func TestPredicateFrequency(t *testing.T) {
	s := New()
	s.AddAll([]term.Triple{
		{Subject: iri("urn:a"), Predicate: iri("urn:knows"), Object: iri("urn:b")},
		{Subject: iri("urn:b"), Predicate: iri("urn:knows"), Object: iri("urn:c")},
		{Subject: iri("urn:a"), Predicate: iri("urn:likes"), Object: iri("urn:c")},
	})
	require.Equal(t, 2, s.PredicateFrequency(iri("urn:knows")))
	require.Equal(t, 1, s.PredicateFrequency(iri("urn:likes")))
}
