package translate

import "github.com/kbvault/sparql/ast"

// ApplyDirections restores the base-direction suffix the directional
// language tag pre-parse transform stripped out of "..."@lang--ltr|rtl
// literals, using the lang -> direction side table it produced. It must
// run over the parsed tree before Translate, since the rewritten query
// text the parser saw carries only the plain "..."@lang form.
func ApplyDirections(q *ast.Query, dirs map[string]string) *ast.Query {
	if len(dirs) == 0 {
		return q
	}
	switch {
	case q.Select != nil:
		q.Select.Where = walkPatternDirections(q.Select.Where, dirs)
		walkExprSliceDirections(q.Select.GroupBy, dirs)
		walkExprSliceDirections(q.Select.Having, dirs)
		for i := range q.Select.Vars {
			if q.Select.Vars[i].Expr != nil {
				q.Select.Vars[i].Expr = walkExprDirections(q.Select.Vars[i].Expr, dirs)
			}
		}
		for i := range q.Select.OrderBy {
			q.Select.OrderBy[i].Expr = walkExprDirections(q.Select.OrderBy[i].Expr, dirs)
		}
	case q.Construct != nil:
		q.Construct.Template = walkTriplesDirections(q.Construct.Template, dirs)
		q.Construct.Where = walkPatternDirections(q.Construct.Where, dirs)
		for i := range q.Construct.OrderBy {
			q.Construct.OrderBy[i].Expr = walkExprDirections(q.Construct.OrderBy[i].Expr, dirs)
		}
	case q.Ask != nil:
		q.Ask.Where = walkPatternDirections(q.Ask.Where, dirs)
	case q.Describe != nil:
		for i, s := range q.Describe.Seeds {
			q.Describe.Seeds[i] = walkTermDirections(s, dirs)
		}
		if q.Describe.Where != nil {
			q.Describe.Where = walkPatternDirections(q.Describe.Where, dirs)
		}
	}
	return q
}

func walkExprSliceDirections(exprs []ast.Expr, dirs map[string]string) {
	for i := range exprs {
		exprs[i] = walkExprDirections(exprs[i], dirs)
	}
}

func walkPatternDirections(gp ast.GraphPattern, dirs map[string]string) ast.GraphPattern {
	if gp == nil {
		return nil
	}
	switch v := gp.(type) {
	case ast.GroupPattern:
		v.Triples = walkTriplesDirections(v.Triples, dirs)
		for i := range v.Binds {
			v.Binds[i].Expr = walkExprDirections(v.Binds[i].Expr, dirs)
		}
		walkExprSliceDirections(v.Filters, dirs)
		for i, inline := range v.Inline {
			v.Inline[i] = walkPatternDirections(inline, dirs)
		}
		return v
	case ast.OptionalPattern:
		v.Pattern = walkPatternDirections(v.Pattern, dirs)
		return v
	case ast.MinusPattern:
		v.Pattern = walkPatternDirections(v.Pattern, dirs)
		return v
	case ast.UnionPattern:
		v.Left = walkPatternDirections(v.Left, dirs)
		v.Right = walkPatternDirections(v.Right, dirs)
		return v
	case ast.GraphNamePattern:
		v.Name = walkTermDirections(v.Name, dirs)
		v.Pattern = walkPatternDirections(v.Pattern, dirs)
		return v
	case ast.ServicePattern:
		v.Name = walkTermDirections(v.Name, dirs)
		v.Pattern = walkPatternDirections(v.Pattern, dirs)
		return v
	case ast.SubqueryPattern:
		v.Query.Where = walkPatternDirections(v.Query.Where, dirs)
		for i := range v.Query.Vars {
			if v.Query.Vars[i].Expr != nil {
				v.Query.Vars[i].Expr = walkExprDirections(v.Query.Vars[i].Expr, dirs)
			}
		}
		return v
	case ast.ValuesPattern:
		for i, row := range v.Bindings {
			for j, t := range row {
				if t != nil {
					v.Bindings[i][j] = walkTermDirections(t, dirs)
				}
			}
		}
		return v
	default:
		return gp
	}
}

func walkTriplesDirections(triples []ast.TriplePattern, dirs map[string]string) []ast.TriplePattern {
	for i := range triples {
		triples[i].Subject = walkTermDirections(triples[i].Subject, dirs)
		triples[i].Object = walkTermDirections(triples[i].Object, dirs)
		for j := range triples[i].Annotations {
			triples[i].Annotations[j].Object = walkTermDirections(triples[i].Annotations[j].Object, dirs)
		}
	}
	return triples
}

func walkExprDirections(e ast.Expr, dirs map[string]string) ast.Expr {
	switch v := e.(type) {
	case ast.TermExpr:
		v.Term = walkTermDirections(v.Term, dirs)
		return v
	case ast.BinaryExpr:
		v.Left = walkExprDirections(v.Left, dirs)
		v.Right = walkExprDirections(v.Right, dirs)
		return v
	case ast.UnaryExpr:
		v.Operand = walkExprDirections(v.Operand, dirs)
		return v
	case ast.CallExpr:
		for i := range v.Args {
			v.Args[i] = walkExprDirections(v.Args[i], dirs)
		}
		return v
	case ast.ExistsExpr:
		v.Pattern = walkPatternDirections(v.Pattern, dirs)
		return v
	case ast.InExpr:
		v.Operand = walkExprDirections(v.Operand, dirs)
		for i := range v.Set {
			v.Set[i] = walkExprDirections(v.Set[i], dirs)
		}
		return v
	default:
		return e
	}
}

func walkTermDirections(t ast.Term, dirs map[string]string) ast.Term {
	switch v := t.(type) {
	case ast.LiteralTerm:
		if v.Language != "" && v.Direction == "" {
			if dir, ok := dirs[v.Language]; ok {
				v.Direction = dir
			}
		}
		return v
	case ast.QuotedTripleTerm:
		v.Subject = walkTermDirections(v.Subject, dirs)
		v.Predicate = walkTermDirections(v.Predicate, dirs)
		v.Object = walkTermDirections(v.Object, dirs)
		return v
	default:
		return t
	}
}
