package translate

import (
	"github.com/pkg/errors"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/ast"
	"github.com/kbvault/sparql/term"
)

// translatePattern lowers one graph pattern to its algebra form. Filters
// hoist to the smallest enclosing group: a GroupPattern's own Filters
// are applied last, after every Triple/Bind/Inline component of that
// same group has been folded together, never leaking into a sibling or
// ancestor group.
func translatePattern(gp ast.GraphPattern) (algebra.Op, error) {
	switch v := gp.(type) {
	case nil:
		return algebra.BGP{}, nil
	case ast.GroupPattern:
		return translateGroup(v)
	case ast.OptionalPattern:
		return nil, errors.New("InternalError: OptionalPattern encountered outside a group")
	case ast.UnionPattern:
		left, err := translatePattern(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := translatePattern(v.Right)
		if err != nil {
			return nil, err
		}
		return algebra.Union{Left: left, Right: right}, nil
	case ast.MinusPattern:
		return nil, errors.New("InternalError: MinusPattern encountered outside a group")
	case ast.GraphNamePattern:
		inner, err := translatePattern(v.Pattern)
		if err != nil {
			return nil, err
		}
		name, err := translateTerm(v.Name)
		if err != nil {
			return nil, err
		}
		return algebra.Graph{Name: name, Input: inner}, nil
	case ast.ServicePattern:
		inner, err := translatePattern(v.Pattern)
		if err != nil {
			return nil, err
		}
		name, err := translateTerm(v.Name)
		if err != nil {
			return nil, err
		}
		return algebra.Service{Endpoint: name, Silent: v.Silent, Input: inner}, nil
	case ast.SubqueryPattern:
		op, _, err := translateSubquery(v.Query)
		return op, err
	case ast.ValuesPattern:
		return translateValues(v)
	default:
		return nil, errors.New("UnsupportedFeature: unknown graph pattern kind")
	}
}

// translateSubquery translates a nested SELECT, reporting whether it
// carried the synthetic LATERAL marker variable (and stripping that
// variable from its projection before translation, since it exists only
// to signal lateral-join semantics to the translator).
func translateSubquery(q ast.SelectQuery) (algebra.Op, bool, error) {
	lateral := false
	kept := q.Vars[:0:0]
	for _, v := range q.Vars {
		if v.Var == lateralMarkerVar {
			lateral = true
			continue
		}
		kept = append(kept, v)
	}
	q.Vars = kept

	op, err := translateSelect(&q)
	if err != nil {
		return nil, false, err
	}
	if !lateral {
		op = algebra.Subquery{Inner: op}
	}
	return op, lateral, nil
}

func translateValues(v ast.ValuesPattern) (algebra.Op, error) {
	bindings := make([][]term.Term, len(v.Bindings))
	for i, row := range v.Bindings {
		out := make([]term.Term, len(row))
		for j, t := range row {
			if t == nil {
				continue
			}
			at, err := translateTerm(t)
			if err != nil {
				return nil, err
			}
			out[j] = at.Value
		}
		bindings[i] = out
	}
	return algebra.Values{Vars: v.Vars, Bindings: bindings}, nil
}

func translateGroup(g ast.GroupPattern) (algebra.Op, error) {
	var op algebra.Op = algebra.BGP{}
	if len(g.Triples) > 0 {
		bgp, err := translateTriples(g.Triples)
		if err != nil {
			return nil, err
		}
		op = bgp
	}

	// join folds rhs into the accumulated op with plain inner-join
	// semantics, collapsing away the placeholder empty BGP a group with
	// no triples of its own starts from.
	join := func(rhs algebra.Op) {
		if isEmptyBGP(op) {
			op = rhs
		} else {
			op = algebra.Join{Left: op, Right: rhs}
		}
	}

	for _, inline := range g.Inline {
		switch iv := inline.(type) {
		case ast.OptionalPattern:
			rhs, err := translatePattern(iv.Pattern)
			if err != nil {
				return nil, err
			}
			op = algebra.LeftJoin{Left: op, Right: rhs}
		case ast.MinusPattern:
			rhs, err := translatePattern(iv.Pattern)
			if err != nil {
				return nil, err
			}
			op = algebra.Minus{Left: op, Right: rhs}
		case ast.SubqueryPattern:
			rhs, lateral, err := translateSubquery(iv.Query)
			if err != nil {
				return nil, err
			}
			if lateral {
				op = algebra.LateralJoin{Left: op, Right: rhs}
			} else {
				join(rhs)
			}
		default:
			rhs, err := translatePattern(inline)
			if err != nil {
				return nil, err
			}
			join(rhs)
		}
	}

	for _, b := range g.Binds {
		e, err := translateExpr(b.Expr)
		if err != nil {
			return nil, err
		}
		op = algebra.Extend{Input: op, Var: b.Var, Expr: e}
	}

	for _, f := range g.Filters {
		e, err := translateExpr(f)
		if err != nil {
			return nil, err
		}
		op = algebra.Filter{Input: op, Expr: e}
	}

	return op, nil
}

func isEmptyBGP(op algebra.Op) bool {
	bgp, ok := op.(algebra.BGP)
	return ok && len(bgp.Patterns) == 0
}

func translateTriples(triples []ast.TriplePattern) (algebra.BGP, error) {
	patterns := make([]algebra.TriplePattern, len(triples))
	for i, tp := range triples {
		alg, err := translateTriplePattern(tp)
		if err != nil {
			return algebra.BGP{}, err
		}
		patterns[i] = alg
	}
	return algebra.BGP{Patterns: patterns}, nil
}

func translateTriplePattern(tp ast.TriplePattern) (algebra.TriplePattern, error) {
	s, err := translateTerm(tp.Subject)
	if err != nil {
		return algebra.TriplePattern{}, err
	}
	pred, err := translatePath(tp.Predicate)
	if err != nil {
		return algebra.TriplePattern{}, err
	}
	o, err := translateTerm(tp.Object)
	if err != nil {
		return algebra.TriplePattern{}, err
	}
	return algebra.TriplePattern{Subject: s, Predicate: pred, Object: o}, nil
}

func translatePath(p ast.PathExpr) (algebra.Path, error) {
	switch v := p.(type) {
	case ast.PathTerm:
		t, err := translateTerm(v.Term)
		if err != nil {
			return nil, err
		}
		return algebra.PathTerm{Term: t}, nil
	case ast.PathSeq:
		l, err := translatePath(v.Left)
		if err != nil {
			return nil, err
		}
		r, err := translatePath(v.Right)
		if err != nil {
			return nil, err
		}
		return algebra.PathSeq{Left: l, Right: r}, nil
	case ast.PathAlt:
		l, err := translatePath(v.Left)
		if err != nil {
			return nil, err
		}
		r, err := translatePath(v.Right)
		if err != nil {
			return nil, err
		}
		return algebra.PathAlt{Left: l, Right: r}, nil
	case ast.PathInverse:
		inner, err := translatePath(v.Path)
		if err != nil {
			return nil, err
		}
		return algebra.PathInverse{Path: inner}, nil
	case ast.PathZeroOrMore:
		inner, err := translatePath(v.Path)
		if err != nil {
			return nil, err
		}
		return algebra.PathZeroOrMore{Path: inner}, nil
	case ast.PathOneOrMore:
		inner, err := translatePath(v.Path)
		if err != nil {
			return nil, err
		}
		return algebra.PathOneOrMore{Path: inner}, nil
	case ast.PathZeroOrOne:
		inner, err := translatePath(v.Path)
		if err != nil {
			return nil, err
		}
		return algebra.PathZeroOrOne{Path: inner}, nil
	case ast.PathNegatedSet:
		iris := make([]term.IRI, len(v.IRIs))
		for i, t := range v.IRIs {
			at, err := translateTerm(t)
			if err != nil {
				return nil, err
			}
			iri, ok := at.Value.(term.IRI)
			if !ok {
				return nil, errors.New("TypeError: negated property set member must be an IRI")
			}
			iris[i] = iri
		}
		return algebra.PathNegatedSet{IRIs: iris, Inverse: append([]bool(nil), v.Inverse...)}, nil
	default:
		return nil, errors.New("UnsupportedFeature: unknown path kind")
	}
}
