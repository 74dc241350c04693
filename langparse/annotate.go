package langparse

import "github.com/kbvault/sparql/ast"

// ExpandAnnotations rewrites every triple pattern carrying `{| p v |}`
// annotations into the base triple followed by one additional triple
// per annotation predicate/value pair, whose subject is the base
// triple quoted as an RDF-star term. Runs at the syntax-tree level,
// before translation, per the parser's contract with the translator.
func ExpandAnnotations(q *ast.Query) *ast.Query {
	switch {
	case q.Select != nil:
		q.Select.Where = expandPattern(q.Select.Where)
	case q.Construct != nil:
		q.Construct.Template = expandTriples(q.Construct.Template)
		q.Construct.Where = expandPattern(q.Construct.Where)
	case q.Ask != nil:
		q.Ask.Where = expandPattern(q.Ask.Where)
	case q.Describe != nil && q.Describe.Where != nil:
		q.Describe.Where = expandPattern(q.Describe.Where)
	}
	return q
}

// pathAsTerm extracts the plain term from a property-path predicate,
// since an RDF-star quoted triple's predicate position is always a
// single IRI or variable, never a composed path.
func pathAsTerm(p ast.PathExpr) ast.Term {
	if pt, ok := p.(ast.PathTerm); ok {
		return pt.Term
	}
	return ast.IRITerm{Value: ""}
}

func expandTriples(triples []ast.TriplePattern) []ast.TriplePattern {
	var out []ast.TriplePattern
	for _, tp := range triples {
		base := tp
		base.Annotations = nil
		out = append(out, base)
		if len(tp.Annotations) == 0 {
			continue
		}
		quoted := ast.QuotedTripleTerm{Subject: tp.Subject, Predicate: pathAsTerm(tp.Predicate), Object: tp.Object}
		for _, ann := range tp.Annotations {
			out = append(out, ast.TriplePattern{
				Subject:   quoted,
				Predicate: ann.Predicate,
				Object:    ann.Object,
			})
		}
	}
	return out
}

func expandPattern(gp ast.GraphPattern) ast.GraphPattern {
	if gp == nil {
		return nil
	}
	switch v := gp.(type) {
	case ast.GroupPattern:
		v.Triples = expandTriples(v.Triples)
		for i, inline := range v.Inline {
			v.Inline[i] = expandPattern(inline)
		}
		return v
	case ast.OptionalPattern:
		v.Pattern = expandPattern(v.Pattern)
		return v
	case ast.MinusPattern:
		v.Pattern = expandPattern(v.Pattern)
		return v
	case ast.UnionPattern:
		v.Left = expandPattern(v.Left)
		v.Right = expandPattern(v.Right)
		return v
	case ast.GraphNamePattern:
		v.Pattern = expandPattern(v.Pattern)
		return v
	case ast.ServicePattern:
		v.Pattern = expandPattern(v.Pattern)
		return v
	case ast.SubqueryPattern:
		v.Query.Where = expandPattern(v.Query.Where)
		return v
	default:
		return gp
	}
}
