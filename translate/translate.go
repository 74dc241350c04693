// Package translate lowers a parsed syntax tree (package ast) into a
// query algebra tree (package algebra), per the translator design in
// the component specification: graph patterns become left-deep join
// trees, OPTIONAL becomes leftjoin, UNION/MINUS map directly, FILTER
// hoists to the smallest enclosing group, subqueries bearing the
// LATERAL marker variable become lateraljoin nodes.
package translate

import (
	"github.com/pkg/errors"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/ast"
	"github.com/kbvault/sparql/rewrite"
	"github.com/kbvault/sparql/term"
)

// Translate lowers a parsed query into its algebra form.
func Translate(q *ast.Query) (algebra.Op, error) {
	switch {
	case q.Select != nil:
		return translateSelect(q.Select)
	case q.Construct != nil:
		return translateConstruct(q.Construct)
	case q.Ask != nil:
		where, err := translatePattern(q.Ask.Where)
		if err != nil {
			return nil, err
		}
		return algebra.Ask{Where: where}, nil
	case q.Describe != nil:
		return translateDescribe(q.Describe)
	default:
		return nil, errors.New("UnsupportedFeature: query has no translatable top-level form")
	}
}

func translateSelect(sel *ast.SelectQuery) (algebra.Op, error) {
	where, err := translatePattern(sel.Where)
	if err != nil {
		return nil, err
	}

	op := where

	if len(sel.GroupBy) > 0 || hasAggregate(sel.Vars) {
		op, err = applyGroupBy(op, sel.GroupBy, sel.Vars)
		if err != nil {
			return nil, err
		}
	} else {
		for _, v := range sel.Vars {
			if v.Expr == nil {
				continue
			}
			e, err := translateExpr(v.Expr)
			if err != nil {
				return nil, err
			}
			op = algebra.Extend{Input: op, Var: v.Var, Expr: e}
		}
	}

	for _, h := range sel.Having {
		e, err := translateExpr(h)
		if err != nil {
			return nil, err
		}
		op = algebra.Filter{Input: op, Expr: e}
	}

	if len(sel.OrderBy) > 0 {
		conds := make([]algebra.OrderCondition, len(sel.OrderBy))
		for i, c := range sel.OrderBy {
			e, err := translateExpr(c.Expr)
			if err != nil {
				return nil, err
			}
			conds[i] = algebra.OrderCondition{Expr: e, Desc: c.Desc}
		}
		op = algebra.OrderBy{Input: op, Conditions: conds}
	}

	if !sel.Star {
		vars := make([]string, len(sel.Vars))
		for i, v := range sel.Vars {
			vars[i] = v.Var
		}
		op = algebra.Project{Input: op, Vars: vars}
	}

	if sel.Distinct {
		op = algebra.Distinct{Input: op}
	} else if sel.Reduced {
		op = algebra.Reduced{Input: op}
	}

	if sel.Offset != nil || sel.Limit != nil {
		offset, limit := 0, -1
		if sel.Offset != nil {
			offset = *sel.Offset
		}
		if sel.Limit != nil {
			limit = *sel.Limit
		}
		op = algebra.Slice{Input: op, Offset: offset, Limit: limit}
	}

	return op, nil
}

func hasAggregate(vars []ast.SelectVar) bool {
	for _, v := range vars {
		if v.Expr != nil && containsAggregateCall(v.Expr) {
			return true
		}
	}
	return false
}

func containsAggregateCall(e ast.Expr) bool {
	switch v := e.(type) {
	case ast.CallExpr:
		if aggregateNames[v.Name] {
			return true
		}
		for _, a := range v.Args {
			if containsAggregateCall(a) {
				return true
			}
		}
	case ast.BinaryExpr:
		return containsAggregateCall(v.Left) || containsAggregateCall(v.Right)
	case ast.UnaryExpr:
		return containsAggregateCall(v.Operand)
	}
	return false
}

var aggregateNames = map[string]bool{
	"COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true,
	"GROUP_CONCAT": true, "SAMPLE": true, "MEDIAN": true, "VARIANCE": true,
	"VAR_SAMP": true, "STDDEV": true, "STDDEV_SAMP": true, "MODE": true,
	"PERCENTILE_CONT": true,
}

// applyGroupBy builds the Group node plus a following Extend layer
// that re-binds each aggregate's fresh internal variable to its
// user-facing alias, per the translator design's fresh-variable rule.
func applyGroupBy(input algebra.Op, groupBy []ast.Expr, vars []ast.SelectVar) (algebra.Op, error) {
	keys := make([]algebra.Expr, 0, len(groupBy))
	for _, g := range groupBy {
		// parseGroupByElement represents "(expr AS ?v)" as a BinaryExpr
		// marked "AS"; bind it with an Extend ahead of the Group node
		// and key the grouping on the bound variable so ?v stays
		// visible to SELECT/HAVING/ORDER BY downstream.
		if bin, ok := g.(ast.BinaryExpr); ok && bin.Op == "AS" {
			e, err := translateExpr(bin.Left)
			if err != nil {
				return nil, err
			}
			asVar, ok := bin.Right.(ast.TermExpr)
			if !ok {
				return nil, errors.New("InternalError: GROUP BY AS marker missing bound variable")
			}
			v, ok := asVar.Term.(ast.VarTerm)
			if !ok {
				return nil, errors.New("InternalError: GROUP BY AS marker bound to non-variable")
			}
			input = algebra.Extend{Input: input, Var: v.Name, Expr: e}
			keys = append(keys, algebra.TermExpr{Term: algebra.Term{Var: v.Name}})
			continue
		}
		e, err := translateExpr(g)
		if err != nil {
			return nil, err
		}
		keys = append(keys, e)
	}

	var aggs []algebra.AggregateBinding
	seq := 0
	freshVar := func() string {
		seq++
		return internalAggVarPrefix + itoa(seq)
	}

	aliasExpr := make(map[string]algebra.Expr, len(vars))
	for _, v := range vars {
		if v.Expr == nil {
			continue
		}
		rewritten, err := extractAggregates(v.Expr, &aggs, freshVar)
		if err != nil {
			return nil, err
		}
		aliasExpr[v.Var] = rewritten
	}

	group := algebra.Group{Input: input, Keys: keys, Aggregates: aggs}
	var op algebra.Op = group
	for _, v := range vars {
		if v.Expr == nil {
			continue
		}
		op = algebra.Extend{Input: op, Var: v.Var, Expr: aliasExpr[v.Var]}
	}
	return op, nil
}

const internalAggVarPrefix = "__agg"

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// extractAggregates replaces every aggregate call inside e with a
// reference to a fresh internal variable, recording the call in aggs.
func extractAggregates(e ast.Expr, aggs *[]algebra.AggregateBinding, freshVar func() string) (algebra.Expr, error) {
	switch v := e.(type) {
	case ast.CallExpr:
		if aggregateNames[v.Name] {
			call, err := translateExpr(v)
			if err != nil {
				return nil, err
			}
			fv := freshVar()
			*aggs = append(*aggs, algebra.AggregateBinding{Var: fv, Call: call})
			return algebra.TermExpr{Term: algebra.Term{Var: fv}}, nil
		}
		args := make([]algebra.Expr, len(v.Args))
		for i, a := range v.Args {
			r, err := extractAggregates(a, aggs, freshVar)
			if err != nil {
				return nil, err
			}
			args[i] = r
		}
		return algebra.CallExpr{Name: v.Name, Args: args}, nil
	case ast.BinaryExpr:
		l, err := extractAggregates(v.Left, aggs, freshVar)
		if err != nil {
			return nil, err
		}
		r, err := extractAggregates(v.Right, aggs, freshVar)
		if err != nil {
			return nil, err
		}
		return algebra.BinaryExpr{Op: v.Op, Left: l, Right: r}, nil
	case ast.UnaryExpr:
		o, err := extractAggregates(v.Operand, aggs, freshVar)
		if err != nil {
			return nil, err
		}
		return algebra.UnaryExpr{Op: v.Op, Operand: o}, nil
	default:
		return translateExpr(e)
	}
}

func translateConstruct(c *ast.ConstructQuery) (algebra.Op, error) {
	where, err := translatePattern(c.Where)
	if err != nil {
		return nil, err
	}
	tmplBGP, err := translateTriples(c.Template)
	if err != nil {
		return nil, err
	}
	tmpl := tmplBGP.Patterns
	op := algebra.Op(algebra.Construct{Template: tmpl, Where: where})
	if len(c.OrderBy) > 0 || c.Limit != nil || c.Offset != nil {
		// ORDER BY/LIMIT/OFFSET on CONSTRUCT apply to the WHERE solutions
		// before template instantiation.
		inner := where
		conds := make([]algebra.OrderCondition, len(c.OrderBy))
		for i, oc := range c.OrderBy {
			e, err := translateExpr(oc.Expr)
			if err != nil {
				return nil, err
			}
			conds[i] = algebra.OrderCondition{Expr: e, Desc: oc.Desc}
		}
		if len(conds) > 0 {
			inner = algebra.OrderBy{Input: inner, Conditions: conds}
		}
		if c.Limit != nil || c.Offset != nil {
			offset, limit := 0, -1
			if c.Offset != nil {
				offset = *c.Offset
			}
			if c.Limit != nil {
				limit = *c.Limit
			}
			inner = algebra.Slice{Input: inner, Offset: offset, Limit: limit}
		}
		op = algebra.Construct{Template: tmpl, Where: inner}
	}
	return op, nil
}

func translateDescribe(d *ast.DescribeQuery) (algebra.Op, error) {
	desc := algebra.Describe{Depth: d.Depth, Symmetric: d.Symmetric}
	for _, s := range d.Seeds {
		t, err := translateTerm(s)
		if err != nil {
			return nil, err
		}
		desc.Seeds = append(desc.Seeds, t)
	}
	if d.Where != nil {
		where, err := translatePattern(d.Where)
		if err != nil {
			return nil, err
		}
		desc.Where = where
	}
	return desc, nil
}

func translateTerm(t ast.Term) (algebra.Term, error) {
	switch v := t.(type) {
	case ast.VarTerm:
		return algebra.Term{Var: v.Name}, nil
	case ast.IRITerm:
		return algebra.Term{Value: term.IRI{Value: v.Value}}, nil
	case ast.BlankTerm:
		if v.Label == "" {
			return algebra.Term{Value: term.NewBlank()}, nil
		}
		return algebra.Term{Value: term.NewBlankNamed(v.Label)}, nil
	case ast.LiteralTerm:
		lit := term.Literal{Lexical: v.Lexical, Datatype: v.Datatype, Language: v.Language}
		switch v.Direction {
		case "ltr":
			lit.Direction = term.DirectionLTR
		case "rtl":
			lit.Direction = term.DirectionRTL
		}
		return algebra.Term{Value: lit}, nil
	case ast.QuotedTripleTerm:
		s, err := translateTerm(v.Subject)
		if err != nil {
			return algebra.Term{}, err
		}
		p, err := translateTerm(v.Predicate)
		if err != nil {
			return algebra.Term{}, err
		}
		o, err := translateTerm(v.Object)
		if err != nil {
			return algebra.Term{}, err
		}
		if s.IsVar() || p.IsVar() || o.IsVar() {
			return algebra.Term{}, errors.New("TypeError: quoted triple term cannot bind variables outside pattern position")
		}
		return algebra.Term{Value: term.QuotedTriple{Subject: s.Value, Predicate: p.Value, Object: o.Value}}, nil
	default:
		return algebra.Term{}, errors.New("UnsupportedFeature: unknown term kind")
	}
}

// lateralMarkerVar names the synthetic projection variable the LATERAL
// pre-parse transform inserts. It is derived from rewrite.LateralMarkerVar
// (not redefined) so translate and rewrite never drift apart on its name.
var lateralMarkerVar = rewrite.LateralMarkerVar
