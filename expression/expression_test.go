package expression

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/kerrors"
	"github.com/kbvault/sparql/term"
)

type stubExister struct {
	result bool
	err    error
}

func (s stubExister) Exists(pattern algebra.Op, env Env) (bool, error) {
	return s.result, s.err
}

func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	return New(stubExister{})
}

func varExpr(name string) algebra.Expr {
	return algebra.TermExpr{Term: algebra.Term{Var: name}}
}

func litExpr(t term.Term) algebra.Expr {
	return algebra.TermExpr{Term: algebra.Term{Value: t}}
}

func intLit(n string) term.Term {
	return term.NewTyped(n, xsdInteger)
}

func TestEvalTermBoundAndUnbound(t *testing.T) {
	ev := newEvaluator(t)
	env := MapEnv{"x": term.NewString("hi")}

	v, err := ev.Eval(varExpr("x"), env)
	require.NoError(t, err)
	assert.Equal(t, term.NewString("hi"), v)

	_, err = ev.Eval(varExpr("y"), env)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kerrors.New(kerrors.KindUnboundVariable, "")))
}

func TestEvalArithmetic(t *testing.T) {
	ev := newEvaluator(t)
	env := MapEnv{}

	e := algebra.BinaryExpr{Op: "+", Left: litExpr(intLit("2")), Right: litExpr(intLit("3"))}
	v, err := ev.Eval(e, env)
	require.NoError(t, err)
	assert.Equal(t, intLit("5"), v)
}

func TestEvalDivisionByZero(t *testing.T) {
	ev := newEvaluator(t)
	e := algebra.BinaryExpr{Op: "/", Left: litExpr(intLit("1")), Right: litExpr(intLit("0"))}
	_, err := ev.Eval(e, MapEnv{})
	require.Error(t, err)
}

func TestEvalBooleanShortCircuit(t *testing.T) {
	ev := newEvaluator(t)
	// false && (1/0 = error) must be false, not an error.
	div := algebra.BinaryExpr{Op: "/", Left: litExpr(intLit("1")), Right: litExpr(intLit("0"))}
	e := algebra.BinaryExpr{Op: "&&", Left: litExpr(boolTerm(false)), Right: div}
	v, err := ev.Eval(e, MapEnv{})
	require.NoError(t, err)
	assert.Equal(t, boolTerm(false), v)

	// true || (1/0 = error) must be true.
	e2 := algebra.BinaryExpr{Op: "||", Left: litExpr(boolTerm(true)), Right: div}
	v2, err := ev.Eval(e2, MapEnv{})
	require.NoError(t, err)
	assert.Equal(t, boolTerm(true), v2)
}

func TestEvalComparison(t *testing.T) {
	ev := newEvaluator(t)
	e := algebra.BinaryExpr{Op: "<", Left: litExpr(intLit("2")), Right: litExpr(intLit("3"))}
	v, err := ev.Eval(e, MapEnv{})
	require.NoError(t, err)
	assert.Equal(t, boolTerm(true), v)
}

func TestEvalUnaryNot(t *testing.T) {
	ev := newEvaluator(t)
	e := algebra.UnaryExpr{Op: "!", Operand: litExpr(boolTerm(false))}
	v, err := ev.Eval(e, MapEnv{})
	require.NoError(t, err)
	assert.Equal(t, boolTerm(true), v)
}

func TestEvalBound(t *testing.T) {
	ev := newEvaluator(t)
	env := MapEnv{"x": term.NewString("hi")}

	bound := algebra.CallExpr{Name: "BOUND", Args: []algebra.Expr{varExpr("x")}}
	v, err := ev.Eval(bound, env)
	require.NoError(t, err)
	assert.Equal(t, boolTerm(true), v)

	unbound := algebra.CallExpr{Name: "BOUND", Args: []algebra.Expr{varExpr("y")}}
	v2, err := ev.Eval(unbound, env)
	require.NoError(t, err)
	assert.Equal(t, boolTerm(false), v2)
}

func TestEvalCoalesce(t *testing.T) {
	ev := newEvaluator(t)
	env := MapEnv{}
	e := algebra.CallExpr{Name: "COALESCE", Args: []algebra.Expr{
		varExpr("missing"),
		litExpr(term.NewString("fallback")),
	}}
	v, err := ev.Eval(e, env)
	require.NoError(t, err)
	assert.Equal(t, term.NewString("fallback"), v)
}

func TestEvalIfOnlyEvaluatesTakenBranch(t *testing.T) {
	ev := newEvaluator(t)
	e := algebra.CallExpr{Name: "IF", Args: []algebra.Expr{
		litExpr(boolTerm(true)),
		litExpr(term.NewString("then")),
		varExpr("undefined-var-would-error"),
	}}
	v, err := ev.Eval(e, MapEnv{})
	require.NoError(t, err)
	assert.Equal(t, term.NewString("then"), v)
}

func TestEvalInExpr(t *testing.T) {
	ev := newEvaluator(t)
	e := algebra.InExpr{
		Operand: litExpr(intLit("2")),
		Set:     []algebra.Expr{litExpr(intLit("1")), litExpr(intLit("2"))},
	}
	v, err := ev.Eval(e, MapEnv{})
	require.NoError(t, err)
	assert.Equal(t, boolTerm(true), v)
}

func TestEvalExists(t *testing.T) {
	ev := New(stubExister{result: true})
	e := algebra.ExistsExpr{Pattern: algebra.BGP{}}
	v, err := ev.Eval(e, MapEnv{})
	require.NoError(t, err)
	assert.Equal(t, boolTerm(true), v)

	ev2 := New(stubExister{result: true})
	e2 := algebra.ExistsExpr{Pattern: algebra.BGP{}, Negated: true}
	v2, err := ev2.Eval(e2, MapEnv{})
	require.NoError(t, err)
	assert.Equal(t, boolTerm(false), v2)
}

func TestOrderCompareNumericAndString(t *testing.T) {
	c, ok := orderCompare(intLit("1"), intLit("2"))
	require.True(t, ok)
	assert.Equal(t, -1, c)

	c2, ok := orderCompare(term.NewString("a"), term.NewString("b"))
	require.True(t, ok)
	assert.Equal(t, -1, c2)
}

func TestOrderComparePrecedence(t *testing.T) {
	// blank < IRI < literal
	c, ok := orderCompare(term.NewBlankNamed("b1"), term.IRI{Value: "http://ex/1"})
	require.True(t, ok)
	assert.Equal(t, -1, c)

	c2, ok := orderCompare(term.IRI{Value: "http://ex/1"}, term.NewString("lit"))
	require.True(t, ok)
	assert.Equal(t, -1, c2)
}

func mustParseRFC3339(s string) time.Time {
	tm, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return tm
}

func TestDurationArithmetic(t *testing.T) {
	ev := newEvaluator(t)
	dt1 := dateTimeTerm(mustParseRFC3339("2024-01-02T00:00:00Z"))
	dt2 := dateTimeTerm(mustParseRFC3339("2024-01-01T00:00:00Z"))
	e := algebra.BinaryExpr{Op: "-", Left: litExpr(dt1), Right: litExpr(dt2)}
	v, err := ev.Eval(e, MapEnv{})
	require.NoError(t, err)
	lit, ok := v.(term.Literal)
	require.True(t, ok)
	assert.Equal(t, xsdDayTimeDuration, lit.Datatype)
}
