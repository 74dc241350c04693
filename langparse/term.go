package langparse

import "github.com/kbvault/sparql/ast"

// parseVarOrTerm parses a single RDF-term position: IRI, prefixed name,
// variable, blank node label, literal, `a` (rdf:type shorthand), or a
// quoted triple term `<< s p o >>`.
func (p *parser) parseVarOrTerm() (ast.Term, error) {
	switch {
	case p.cur.kind == tokIRI:
		v := p.resolveIRI(p.cur.text)
		return ast.IRITerm{Value: v}, p.advance()
	case p.cur.kind == tokPName:
		v, err := p.resolvePName(p.cur.text)
		if err != nil {
			return nil, err
		}
		return ast.IRITerm{Value: v}, p.advance()
	case p.cur.kind == tokVar:
		name := p.cur.text
		return ast.VarTerm{Name: name}, p.advance()
	case p.cur.kind == tokBlank:
		label := p.cur.text
		return ast.BlankTerm{Label: label}, p.advance()
	case p.isKeyword("A"):
		return ast.IRITerm{Value: rdfType}, p.advance()
	case p.cur.kind == tokString:
		return p.parseLiteral()
	case p.cur.kind == tokInteger:
		v := ast.LiteralTerm{Lexical: p.cur.text, Datatype: xsdInteger}
		return v, p.advance()
	case p.cur.kind == tokDecimal:
		v := ast.LiteralTerm{Lexical: p.cur.text, Datatype: xsdDecimal}
		return v, p.advance()
	case p.cur.kind == tokDouble:
		v := ast.LiteralTerm{Lexical: p.cur.text, Datatype: xsdDouble}
		return v, p.advance()
	case p.cur.kind == tokBoolean:
		v := ast.LiteralTerm{Lexical: toLowerBool(p.cur.text), Datatype: xsdBoolean}
		return v, p.advance()
	case p.isPunct("("):
		return p.parseParenTerm()
	case p.isPunct("<<"):
		return p.parseQuotedTriple()
	default:
		return nil, p.errorf("expected a term, got %q", p.cur.text)
	}
}

func toLowerBool(s string) string {
	if s == "TRUE" {
		return "true"
	}
	return "false"
}

// parseParenTerm handles the empty-list shorthand `()`, the RDF nil IRI.
func (p *parser) parseParenTerm() (ast.Term, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return ast.IRITerm{Value: rdfNil}, nil
}

func (p *parser) parseLiteral() (ast.Term, error) {
	lexical := p.cur.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	lit := ast.LiteralTerm{Lexical: lexical, Datatype: xsdString}

	if p.cur.kind == tokLangTag {
		lit.Language = p.cur.text
		lit.Datatype = rdfLangString
		return lit, p.advance()
	}
	if p.isPunct("^") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct("^"); err != nil {
			return nil, err
		}
		dt, err := p.parseVarOrTerm()
		if err != nil {
			return nil, err
		}
		iri, ok := dt.(ast.IRITerm)
		if !ok {
			return nil, p.errorf("expected IRI datatype after ^^")
		}
		lit.Datatype = iri.Value
		return lit, nil
	}
	return lit, nil
}

func (p *parser) parseQuotedTriple() (ast.Term, error) {
	if err := p.expectPunct("<<"); err != nil {
		return nil, err
	}
	s, err := p.parseVarOrTerm()
	if err != nil {
		return nil, err
	}
	pr, err := p.parseVarOrTerm()
	if err != nil {
		return nil, err
	}
	o, err := p.parseVarOrTerm()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(">>"); err != nil {
		return nil, err
	}
	return ast.QuotedTripleTerm{Subject: s, Predicate: pr, Object: o}, nil
}

const (
	xsdString     = "http://www.w3.org/2001/XMLSchema#string"
	xsdInteger    = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDecimal    = "http://www.w3.org/2001/XMLSchema#decimal"
	xsdDouble     = "http://www.w3.org/2001/XMLSchema#double"
	xsdBoolean    = "http://www.w3.org/2001/XMLSchema#boolean"
	rdfLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
	rdfType       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	rdfNil        = "http://www.w3.org/1999/02/22-rdf-syntax-ns#nil"
)
