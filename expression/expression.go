// Package expression evaluates algebra expressions against a partial
// solution, backing FILTER, EXTEND, ORDER BY, HAVING and aggregate
// arguments. Unbound variable references raise a typed error that is
// caught where SPARQL semantics require it (FILTER -> false, COALESCE ->
// next, BOUND -> false, EXTEND -> unbound) and otherwise propagates with
// its Kind intact.
package expression

import (
	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/expression/function"
	"github.com/kbvault/sparql/kerrors"
	"github.com/kbvault/sparql/term"
)

// Env is the partial solution an expression is evaluated against.
type Env interface {
	Get(name string) (term.Term, bool)
}

// MapEnv is the common in-memory Env: a single solution row.
type MapEnv map[string]term.Term

func (m MapEnv) Get(name string) (term.Term, bool) {
	v, ok := m[name]
	return v, ok
}

// PatternExister runs a nested algebra pattern against the store under
// env's bindings and reports whether it yields at least one solution.
// The executor (package rowexec) supplies this, injected at
// construction; expression never imports rowexec, avoiding a cycle.
type PatternExister interface {
	Exists(pattern algebra.Op, env Env) (bool, error)
}

// Evaluator evaluates algebra.Expr values. It is constructed once per
// engine configuration and carries no per-query mutable state.
type Evaluator struct {
	Functions *function.Registry
	Exists    PatternExister
}

// New builds an Evaluator with the default builtin function registry.
func New(exister PatternExister) *Evaluator {
	return &Evaluator{Functions: function.Default(), Exists: exister}
}

// Eval evaluates e against env, returning a typed error on failure.
func (ev *Evaluator) Eval(e algebra.Expr, env Env) (term.Term, error) {
	switch v := e.(type) {
	case algebra.TermExpr:
		return ev.evalTerm(v.Term, env)
	case algebra.BinaryExpr:
		return ev.evalBinary(v, env)
	case algebra.UnaryExpr:
		return ev.evalUnary(v, env)
	case algebra.CallExpr:
		return ev.evalCall(v, env)
	case algebra.ExistsExpr:
		return ev.evalExists(v, env)
	case algebra.InExpr:
		return ev.evalIn(v, env)
	default:
		return nil, kerrors.New(kerrors.KindUnsupportedFeature, "unknown expression kind")
	}
}

func (ev *Evaluator) evalTerm(t algebra.Term, env Env) (term.Term, error) {
	if !t.IsVar() {
		return t.Value, nil
	}
	v, ok := env.Get(t.Var)
	if !ok {
		return nil, kerrors.New(kerrors.KindUnboundVariable, "unbound variable ?"+t.Var)
	}
	return v, nil
}

// BOUND, COALESCE and IF need to see argument evaluation errors before
// they happen (BOUND treats unbound as an answer, not a failure;
// COALESCE moves to the next argument on error; IF only evaluates the
// branch it takes), so they are special-cased ahead of the generic
// eager-argument-evaluation dispatch every other builtin uses.
func (ev *Evaluator) evalCall(c algebra.CallExpr, env Env) (term.Term, error) {
	switch c.Name {
	case "BOUND":
		return ev.evalBound(c, env)
	case "COALESCE":
		return ev.evalCoalesce(c, env)
	case "IF":
		return ev.evalIf(c, env)
	}

	args := make([]term.Term, len(c.Args))
	for i, a := range c.Args {
		v, err := ev.Eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	fn, ok := ev.Functions.Lookup(c.Name)
	if !ok {
		return nil, kerrors.New(kerrors.KindUnsupportedFeature, "unknown function "+c.Name)
	}
	return fn(args)
}

func (ev *Evaluator) evalBound(c algebra.CallExpr, env Env) (term.Term, error) {
	if len(c.Args) != 1 {
		return nil, kerrors.New(kerrors.KindTypeError, "BOUND takes exactly one argument")
	}
	t, ok := c.Args[0].(algebra.TermExpr)
	if !ok || !t.Term.IsVar() {
		return nil, kerrors.New(kerrors.KindTypeError, "BOUND requires a variable argument")
	}
	_, bound := env.Get(t.Term.Var)
	return boolTerm(bound), nil
}

func (ev *Evaluator) evalCoalesce(c algebra.CallExpr, env Env) (term.Term, error) {
	for _, a := range c.Args {
		v, err := ev.Eval(a, env)
		if err == nil {
			return v, nil
		}
	}
	return nil, kerrors.New(kerrors.KindUnboundVariable, "COALESCE: no argument evaluated without error")
}

func (ev *Evaluator) evalIf(c algebra.CallExpr, env Env) (term.Term, error) {
	if len(c.Args) != 3 {
		return nil, kerrors.New(kerrors.KindTypeError, "IF takes exactly three arguments")
	}
	cond, err := ev.Eval(c.Args[0], env)
	if err != nil {
		return nil, err
	}
	b, ok := effectiveBooleanValue(cond)
	if !ok {
		return nil, kerrors.New(kerrors.KindTypeError, "IF condition is not boolean-coercible")
	}
	if b {
		return ev.Eval(c.Args[1], env)
	}
	return ev.Eval(c.Args[2], env)
}

func (ev *Evaluator) evalExists(e algebra.ExistsExpr, env Env) (term.Term, error) {
	ok, err := ev.Exists.Exists(e.Pattern, env)
	if err != nil {
		return nil, err
	}
	if e.Negated {
		ok = !ok
	}
	return boolTerm(ok), nil
}

func (ev *Evaluator) evalIn(e algebra.InExpr, env Env) (term.Term, error) {
	operand, err := ev.Eval(e.Operand, env)
	if err != nil {
		return nil, err
	}
	found := false
	var firstErr error
	for _, s := range e.Set {
		v, err := ev.Eval(s, env)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue // a single erroring member does not fail the whole IN test unless nothing else matches
		}
		if sameValue(operand, v) {
			found = true
			break
		}
	}
	if !found && firstErr != nil {
		return nil, firstErr
	}
	if e.Negated {
		found = !found
	}
	return boolTerm(found), nil
}

func boolTerm(b bool) term.Term {
	lex := "false"
	if b {
		lex = "true"
	}
	return term.Literal{Lexical: lex, Datatype: xsdBoolean}
}

// EffectiveBooleanValue exposes the EBV coercion (xsd:boolean literal,
// non-empty xsd:string, non-zero/non-NaN numeric) used internally for
// FILTER and boolean operators, for callers outside this package that
// need the same coercion applied to an already-evaluated term (e.g. the
// executor's FILTER and LeftJoin join-condition handling).
func EffectiveBooleanValue(t term.Term) (bool, bool) {
	return effectiveBooleanValue(t)
}
