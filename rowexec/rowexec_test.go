package rowexec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/expression/function"
	"github.com/kbvault/sparql/store"
	"github.com/kbvault/sparql/term"
)

func iri(s string) term.IRI { return term.IRI{Value: s} }

func varTerm(name string) algebra.Term  { return algebra.Term{Var: name} }
func iriTerm(s string) algebra.Term     { return algebra.Term{Value: iri(s)} }
func strTerm(s string) algebra.Term     { return algebra.Term{Value: term.NewString(s)} }
func intTerm(n string) algebra.Term     { return algebra.Term{Value: term.NewTyped(n, "http://www.w3.org/2001/XMLSchema#integer")} }

func newTestExecutor(triples ...term.Triple) *Executor {
	s := store.New()
	s.AddAll(triples)
	return New(Config{Store: s, Functions: function.Default()})
}

func drainAll(t *testing.T, it Iterator) []Solution {
	t.Helper()
	rows, err := drain(context.Background(), it)
	require.NoError(t, err)
	return rows
}

func TestExecBGPSingleTriple(t *testing.T) {
	ex := newTestExecutor(
		term.Triple{Subject: iri(":a"), Predicate: iri(":p"), Object: iri(":b")},
		term.Triple{Subject: iri(":a"), Predicate: iri(":p"), Object: iri(":c")},
	)
	bgp := algebra.BGP{Patterns: []algebra.TriplePattern{
		{Subject: iriTerm(":a"), Predicate: algebra.PathTerm{Term: iriTerm(":p")}, Object: varTerm("o")},
	}}
	it, err := ex.Execute(context.Background(), bgp)
	require.NoError(t, err)
	rows := drainAll(t, it)
	assert.Len(t, rows, 2)
}

func TestExecBGPJoinAcrossPatterns(t *testing.T) {
	ex := newTestExecutor(
		term.Triple{Subject: iri(":a"), Predicate: iri(":knows"), Object: iri(":b")},
		term.Triple{Subject: iri(":b"), Predicate: iri(":name"), Object: term.NewString("Bob")},
		term.Triple{Subject: iri(":c"), Predicate: iri(":name"), Object: term.NewString("Carol")},
	)
	bgp := algebra.BGP{Patterns: []algebra.TriplePattern{
		{Subject: varTerm("x"), Predicate: algebra.PathTerm{Term: iriTerm(":knows")}, Object: varTerm("y")},
		{Subject: varTerm("y"), Predicate: algebra.PathTerm{Term: iriTerm(":name")}, Object: varTerm("n")},
	}}
	it, err := ex.Execute(context.Background(), bgp)
	require.NoError(t, err)
	rows := drainAll(t, it)
	require.Len(t, rows, 1)
	n, ok := rows[0].Get("n")
	require.True(t, ok)
	assert.Equal(t, "Bob", n.(term.Literal).Lexical)
}

func TestExecLeftJoinUnmatchedKeepsLeftRow(t *testing.T) {
	ex := newTestExecutor(
		term.Triple{Subject: iri(":a"), Predicate: iri(":type"), Object: iri(":Person")},
	)
	lj := algebra.LeftJoin{
		Left: algebra.BGP{Patterns: []algebra.TriplePattern{
			{Subject: varTerm("x"), Predicate: algebra.PathTerm{Term: iriTerm(":type")}, Object: iriTerm(":Person")},
		}},
		Right: algebra.BGP{Patterns: []algebra.TriplePattern{
			{Subject: varTerm("x"), Predicate: algebra.PathTerm{Term: iriTerm(":nickname")}, Object: varTerm("nick")},
		}},
	}
	it, err := ex.Execute(context.Background(), lj)
	require.NoError(t, err)
	rows := drainAll(t, it)
	require.Len(t, rows, 1)
	_, hasNick := rows[0].Get("nick")
	assert.False(t, hasNick)
	x, _ := rows[0].Get("x")
	assert.Equal(t, iri(":a"), x)
}

func TestExecUnion(t *testing.T) {
	ex := newTestExecutor(
		term.Triple{Subject: iri(":a"), Predicate: iri(":p"), Object: iri(":x")},
		term.Triple{Subject: iri(":b"), Predicate: iri(":q"), Object: iri(":y")},
	)
	u := algebra.Union{
		Left:  algebra.BGP{Patterns: []algebra.TriplePattern{{Subject: varTerm("s"), Predicate: algebra.PathTerm{Term: iriTerm(":p")}, Object: varTerm("o")}}},
		Right: algebra.BGP{Patterns: []algebra.TriplePattern{{Subject: varTerm("s"), Predicate: algebra.PathTerm{Term: iriTerm(":q")}, Object: varTerm("o")}}},
	}
	it, err := ex.Execute(context.Background(), u)
	require.NoError(t, err)
	rows := drainAll(t, it)
	assert.Len(t, rows, 2)
}

func TestExecMinusRemovesSharedVarMatches(t *testing.T) {
	ex := newTestExecutor(
		term.Triple{Subject: iri(":a"), Predicate: iri(":p"), Object: iri(":1")},
		term.Triple{Subject: iri(":b"), Predicate: iri(":p"), Object: iri(":2")},
		term.Triple{Subject: iri(":a"), Predicate: iri(":excluded"), Object: iri(":yes")},
	)
	m := algebra.Minus{
		Left: algebra.BGP{Patterns: []algebra.TriplePattern{{Subject: varTerm("s"), Predicate: algebra.PathTerm{Term: iriTerm(":p")}, Object: varTerm("o")}}},
		Right: algebra.BGP{Patterns: []algebra.TriplePattern{{Subject: varTerm("s"), Predicate: algebra.PathTerm{Term: iriTerm(":excluded")}, Object: varTerm("yes")}}},
	}
	it, err := ex.Execute(context.Background(), m)
	require.NoError(t, err)
	rows := drainAll(t, it)
	require.Len(t, rows, 1)
	s, _ := rows[0].Get("s")
	assert.Equal(t, iri(":b"), s)
}

func TestExecValuesUndef(t *testing.T) {
	ex := newTestExecutor()
	v := algebra.Values{
		Vars:     []string{"x", "y"},
		Bindings: [][]term.Term{{iri(":a"), nil}, {nil, term.NewString("hi")}},
	}
	it, err := ex.Execute(context.Background(), v)
	require.NoError(t, err)
	rows := drainAll(t, it)
	require.Len(t, rows, 2)
	_, ok := rows[0].Get("y")
	assert.False(t, ok)
	_, ok = rows[1].Get("x")
	assert.False(t, ok)
}

func TestExecFilterDropsErroringAndFalseRows(t *testing.T) {
	ex := newTestExecutor()
	v := algebra.Values{
		Vars: []string{"n"},
		Bindings: [][]term.Term{
			{term.NewTyped("1", "http://www.w3.org/2001/XMLSchema#integer")},
			{term.NewTyped("5", "http://www.w3.org/2001/XMLSchema#integer")},
			{nil},
		},
	}
	f := algebra.Filter{
		Input: v,
		Expr: algebra.BinaryExpr{Op: ">", Left: algebra.TermExpr{Term: varTerm("n")}, Right: algebra.TermExpr{Term: intTerm("3")}},
	}
	it, err := ex.Execute(context.Background(), f)
	require.NoError(t, err)
	rows := drainAll(t, it)
	require.Len(t, rows, 1)
	n, _ := rows[0].Get("n")
	assert.Equal(t, "5", n.(term.Literal).Lexical)
}

func TestExecExtendLeavesUnboundOnError(t *testing.T) {
	ex := newTestExecutor()
	v := algebra.Values{Vars: []string{"x"}, Bindings: [][]term.Term{{iri(":a")}}}
	e := algebra.Extend{
		Input: v,
		Var:   "bad",
		Expr:  algebra.TermExpr{Term: varTerm("missing")},
	}
	it, err := ex.Execute(context.Background(), e)
	require.NoError(t, err)
	rows := drainAll(t, it)
	require.Len(t, rows, 1)
	_, ok := rows[0].Get("bad")
	assert.False(t, ok)
}

func TestExecProjectRestrictsVars(t *testing.T) {
	ex := newTestExecutor()
	v := algebra.Values{Vars: []string{"x", "y"}, Bindings: [][]term.Term{{iri(":a"), iri(":b")}}}
	p := algebra.Project{Input: v, Vars: []string{"x"}}
	it, err := ex.Execute(context.Background(), p)
	require.NoError(t, err)
	rows := drainAll(t, it)
	require.Len(t, rows, 1)
	_, hasX := rows[0].Get("x")
	_, hasY := rows[0].Get("y")
	assert.True(t, hasX)
	assert.False(t, hasY)
}

func TestExecOrderByAndSlice(t *testing.T) {
	ex := newTestExecutor()
	v := algebra.Values{
		Vars: []string{"n"},
		Bindings: [][]term.Term{
			{intTerm("3").Value}, {intTerm("1").Value}, {intTerm("2").Value},
		},
	}
	ob := algebra.OrderBy{Input: v, Conditions: []algebra.OrderCondition{
		{Expr: algebra.TermExpr{Term: varTerm("n")}},
	}}
	sl := algebra.Slice{Input: ob, Offset: 1, Limit: 1}
	it, err := ex.Execute(context.Background(), sl)
	require.NoError(t, err)
	rows := drainAll(t, it)
	require.Len(t, rows, 1)
	n, _ := rows[0].Get("n")
	assert.Equal(t, "2", n.(term.Literal).Lexical)
}

func TestExecDistinctDedups(t *testing.T) {
	ex := newTestExecutor()
	v := algebra.Values{
		Vars: []string{"x"},
		Bindings: [][]term.Term{
			{iri(":a")}, {iri(":a")}, {iri(":b")},
		},
	}
	d := algebra.Distinct{Input: v}
	it, err := ex.Execute(context.Background(), d)
	require.NoError(t, err)
	rows := drainAll(t, it)
	assert.Len(t, rows, 2)
}

func TestExecGroupCountStar(t *testing.T) {
	ex := newTestExecutor(
		term.Triple{Subject: iri(":a"), Predicate: iri(":type"), Object: iri(":Person")},
		term.Triple{Subject: iri(":b"), Predicate: iri(":type"), Object: iri(":Person")},
	)
	g := algebra.Group{
		Input: algebra.BGP{Patterns: []algebra.TriplePattern{
			{Subject: varTerm("s"), Predicate: algebra.PathTerm{Term: iriTerm(":type")}, Object: varTerm("t")},
		}},
		Aggregates: []algebra.AggregateBinding{
			{Var: "count", Call: algebra.CallExpr{Name: "COUNT", Args: nil}},
		},
	}
	it, err := ex.Execute(context.Background(), g)
	require.NoError(t, err)
	rows := drainAll(t, it)
	require.Len(t, rows, 1)
	c, ok := rows[0].Get("count")
	require.True(t, ok)
	assert.Equal(t, "2", c.(term.Literal).Lexical)
}

func TestExecGroupByKeyPartitionsRows(t *testing.T) {
	ex := newTestExecutor(
		term.Triple{Subject: iri(":a"), Predicate: iri(":dept"), Object: iri(":eng")},
		term.Triple{Subject: iri(":b"), Predicate: iri(":dept"), Object: iri(":eng")},
		term.Triple{Subject: iri(":c"), Predicate: iri(":dept"), Object: iri(":sales")},
	)
	g := algebra.Group{
		Input: algebra.BGP{Patterns: []algebra.TriplePattern{
			{Subject: varTerm("s"), Predicate: algebra.PathTerm{Term: iriTerm(":dept")}, Object: varTerm("d")},
		}},
		Keys: []algebra.Expr{algebra.TermExpr{Term: varTerm("d")}},
		Aggregates: []algebra.AggregateBinding{
			{Var: "n", Call: algebra.CallExpr{Name: "COUNT", Args: nil}},
		},
	}
	it, err := ex.Execute(context.Background(), g)
	require.NoError(t, err)
	rows := drainAll(t, it)
	assert.Len(t, rows, 2)
	for _, row := range rows {
		d, ok := row.Get("d")
		require.True(t, ok)
		n, _ := row.Get("n")
		if d.(term.IRI).Value == ":eng" {
			assert.Equal(t, "2", n.(term.Literal).Lexical)
		} else {
			assert.Equal(t, "1", n.(term.Literal).Lexical)
		}
	}
}

func TestExecPathStarClosureTerminatesOnCycle(t *testing.T) {
	ex := newTestExecutor(
		term.Triple{Subject: iri(":a"), Predicate: iri(":next"), Object: iri(":b")},
		term.Triple{Subject: iri(":b"), Predicate: iri(":next"), Object: iri(":c")},
		term.Triple{Subject: iri(":c"), Predicate: iri(":next"), Object: iri(":a")}, // cycle back to :a
	)
	bgp := algebra.BGP{Patterns: []algebra.TriplePattern{
		{Subject: iriTerm(":a"), Predicate: algebra.PathZeroOrMore{Path: algebra.PathTerm{Term: iriTerm(":next")}}, Object: varTerm("reachable")},
	}}
	it, err := ex.Execute(context.Background(), bgp)
	require.NoError(t, err)
	rows := drainAll(t, it)
	// :a (reflexive), :b, :c -- exactly three, despite the cycle.
	assert.Len(t, rows, 3)
}

func TestExecGraphRestrictsToNamedGraph(t *testing.T) {
	g1 := iri(":g1")
	ex := newTestExecutor(
		term.Triple{Subject: iri(":a"), Predicate: iri(":p"), Object: iri(":x"), Graph: &g1},
		term.Triple{Subject: iri(":a"), Predicate: iri(":p"), Object: iri(":y")}, // default graph
	)
	graphOp := algebra.Graph{
		Name: iriTerm(":g1"),
		Input: algebra.BGP{Patterns: []algebra.TriplePattern{
			{Subject: varTerm("s"), Predicate: algebra.PathTerm{Term: iriTerm(":p")}, Object: varTerm("o")},
		}},
	}
	it, err := ex.Execute(context.Background(), graphOp)
	require.NoError(t, err)
	rows := drainAll(t, it)
	require.Len(t, rows, 1)
	o, _ := rows[0].Get("o")
	assert.Equal(t, iri(":x"), o)
}

func TestAskTrueAndFalse(t *testing.T) {
	ex := newTestExecutor(term.Triple{Subject: iri(":a"), Predicate: iri(":p"), Object: iri(":b")})
	trueAsk := algebra.Ask{Where: algebra.BGP{Patterns: []algebra.TriplePattern{
		{Subject: varTerm("s"), Predicate: algebra.PathTerm{Term: iriTerm(":p")}, Object: varTerm("o")},
	}}}
	ok, err := ex.Ask(context.Background(), trueAsk)
	require.NoError(t, err)
	assert.True(t, ok)

	falseAsk := algebra.Ask{Where: algebra.BGP{Patterns: []algebra.TriplePattern{
		{Subject: varTerm("s"), Predicate: algebra.PathTerm{Term: iriTerm(":nope")}, Object: varTerm("o")},
	}}}
	ok, err = ex.Ask(context.Background(), falseAsk)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConstructInstantiatesTemplate(t *testing.T) {
	ex := newTestExecutor(term.Triple{Subject: iri(":a"), Predicate: iri(":knows"), Object: iri(":b")})
	c := algebra.Construct{
		Template: []algebra.TriplePattern{
			{Subject: varTerm("s"), Predicate: algebra.PathTerm{Term: iriTerm(":relatedTo")}, Object: varTerm("o")},
		},
		Where: algebra.BGP{Patterns: []algebra.TriplePattern{
			{Subject: varTerm("s"), Predicate: algebra.PathTerm{Term: iriTerm(":knows")}, Object: varTerm("o")},
		}},
	}
	triples, err := ex.Construct(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, triples, 1)
	assert.Equal(t, iri(":relatedTo"), triples[0].Predicate)
}

func TestDescribeDepthOneSymmetricFollowsBothDirections(t *testing.T) {
	ex := newTestExecutor(
		term.Triple{Subject: iri(":task1"), Predicate: iri(":parent"), Object: iri(":project1")},
		term.Triple{Subject: iri(":project1"), Predicate: iri(":label"), Object: term.NewString("P1")},
		term.Triple{Subject: iri(":project1"), Predicate: iri(":owner"), Object: iri(":alice")},
		term.Triple{Subject: iri(":alice"), Predicate: iri(":name"), Object: term.NewString("Alice")},
	)
	depth := 1
	d := algebra.Describe{
		Seeds:     []algebra.Term{iriTerm(":project1")},
		Depth:     &depth,
		Symmetric: true,
	}
	triples, err := ex.Describe(context.Background(), d)
	require.NoError(t, err)
	// :project1 as object of :parent (incoming), plus its two outgoing triples.
	assert.Len(t, triples, 3)
}

func TestDescribeDepthZeroIsEmpty(t *testing.T) {
	ex := newTestExecutor(term.Triple{Subject: iri(":a"), Predicate: iri(":p"), Object: iri(":b")})
	depth := 0
	d := algebra.Describe{Seeds: []algebra.Term{iriTerm(":a")}, Depth: &depth}
	triples, err := ex.Describe(context.Background(), d)
	require.NoError(t, err)
	assert.Empty(t, triples)
}

func TestExistsUsedByEvaluatorForExistsExpr(t *testing.T) {
	ex := newTestExecutor(term.Triple{Subject: iri(":a"), Predicate: iri(":p"), Object: iri(":b")})
	pattern := algebra.BGP{Patterns: []algebra.TriplePattern{
		{Subject: varTerm("s"), Predicate: algebra.PathTerm{Term: iriTerm(":p")}, Object: varTerm("o")},
	}}
	found, err := ex.Exists(pattern, Solution{})
	require.NoError(t, err)
	assert.True(t, found)
}

func TestExecuteCancellation(t *testing.T) {
	ex := newTestExecutor(term.Triple{Subject: iri(":a"), Predicate: iri(":p"), Object: iri(":b")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ex.Execute(ctx, algebra.BGP{Patterns: []algebra.TriplePattern{
		{Subject: varTerm("s"), Predicate: algebra.PathTerm{Term: iriTerm(":p")}, Object: varTerm("o")},
	}})
	assert.Error(t, err)
}
