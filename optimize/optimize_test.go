package optimize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/term"
)

func varTerm(name string) algebra.Term   { return algebra.Term{Var: name} }
func iriTerm(v string) algebra.Term      { return algebra.Term{Value: term.IRI{Value: v}} }
func predIRI(v string) algebra.Path      { return algebra.PathTerm{Term: iriTerm(v)} }
func predVar(name string) algebra.Path   { return algebra.PathTerm{Term: varTerm(name)} }

func TestReorderBGPBoundPositionsFirst(t *testing.T) {
	bgp := algebra.BGP{Patterns: []algebra.TriplePattern{
		{Subject: varTerm("s"), Predicate: predVar("p"), Object: varTerm("o")},
		{Subject: iriTerm("urn:x"), Predicate: predIRI("urn:knows"), Object: iriTerm("urn:y")},
	}}
	out := reorderBGP(bgp, nil)
	require.Equal(t, "urn:x", out.Patterns[0].Subject.Value.(term.IRI).Value)
}

func TestPushdownFilterMovesBelowJoin(t *testing.T) {
	left := algebra.BGP{Patterns: []algebra.TriplePattern{
		{Subject: varTerm("s"), Predicate: predIRI("urn:p"), Object: varTerm("o")},
	}}
	right := algebra.BGP{Patterns: []algebra.TriplePattern{
		{Subject: varTerm("s"), Predicate: predIRI("urn:q"), Object: varTerm("v")},
	}}
	join := algebra.Join{Left: left, Right: right}
	f := algebra.Filter{Input: join, Expr: algebra.BinaryExpr{
		Op:   ">",
		Left: algebra.TermExpr{Term: varTerm("v")},
		Right: algebra.TermExpr{Term: algebra.Term{Value: term.Literal{Lexical: "1", Datatype: xsdInteger}}},
	}}
	out := pushdownFilters(f)
	j, ok := out.(algebra.Join)
	require.True(t, ok)
	_, stillFilteredAtTop := out.(algebra.Filter)
	require.False(t, stillFilteredAtTop)
	rf, ok := j.Right.(algebra.Filter)
	require.True(t, ok)
	_, ok = rf.Input.(algebra.BGP)
	require.True(t, ok)
}

func TestFoldConstantsArithmetic(t *testing.T) {
	e := algebra.BinaryExpr{
		Op:   "+",
		Left: algebra.TermExpr{Term: algebra.Term{Value: term.Literal{Lexical: "2", Datatype: xsdInteger}}},
		Right: algebra.TermExpr{Term: algebra.Term{Value: term.Literal{Lexical: "3", Datatype: xsdInteger}}},
	}
	folded := foldExpr(e)
	te, ok := folded.(algebra.TermExpr)
	require.True(t, ok)
	lit, ok := te.Term.Value.(term.Literal)
	require.True(t, ok)
	require.Equal(t, "5", lit.Lexical)
}

func TestSwapJoinForSmallValues(t *testing.T) {
	small := algebra.Values{Vars: []string{"x"}, Bindings: [][]term.Term{{term.NewString("a")}}}
	bgp := algebra.BGP{Patterns: []algebra.TriplePattern{
		{Subject: varTerm("x"), Predicate: predIRI("urn:p"), Object: varTerm("y")},
	}}
	j := algebra.Join{Left: small, Right: bgp}
	out := swapJoinForSmallValues(j)
	swapped, ok := out.(algebra.Join)
	require.True(t, ok)
	_, ok = swapped.Left.(algebra.BGP)
	require.True(t, ok)
	_, ok = swapped.Right.(algebra.Values)
	require.True(t, ok)
}

func TestOptimizeEndToEnd(t *testing.T) {
	bgp := algebra.BGP{Patterns: []algebra.TriplePattern{
		{Subject: varTerm("s"), Predicate: predVar("p"), Object: varTerm("o")},
		{Subject: iriTerm("urn:x"), Predicate: predIRI("urn:knows"), Object: varTerm("o")},
	}}
	out := Optimize(bgp, nil)
	result, ok := out.(algebra.BGP)
	require.True(t, ok)
	require.Len(t, result.Patterns, 2)
	require.Equal(t, "urn:x", result.Patterns[0].Subject.Value.(term.IRI).Value)
}
