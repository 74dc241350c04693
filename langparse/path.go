package langparse

import "github.com/kbvault/sparql/ast"

// parsePath parses a property path expression with precedence
// (loosest to tightest): alternative (|), sequence (/), then the
// unary postfix/prefix operators (^ ! * + ?) binding to a primary term.
func (p *parser) parsePath() (ast.PathExpr, error) {
	return p.parsePathAlt()
}

func (p *parser) parsePathAlt() (ast.PathExpr, error) {
	left, err := p.parsePathSeq()
	if err != nil {
		return nil, err
	}
	for p.isPunct("|") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePathSeq()
		if err != nil {
			return nil, err
		}
		left = ast.PathAlt{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parsePathSeq() (ast.PathExpr, error) {
	left, err := p.parsePathUnary()
	if err != nil {
		return nil, err
	}
	for p.isPunct("/") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePathUnary()
		if err != nil {
			return nil, err
		}
		left = ast.PathSeq{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parsePathUnary() (ast.PathExpr, error) {
	if p.isPunct("^") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parsePathPrimary()
		if err != nil {
			return nil, err
		}
		return p.parsePathPostfix(ast.PathInverse{Path: inner})
	}
	if p.isPunct("!") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		set, err := p.parseNegatedPathSet()
		if err != nil {
			return nil, err
		}
		return p.parsePathPostfix(set)
	}
	prim, err := p.parsePathPrimary()
	if err != nil {
		return nil, err
	}
	return p.parsePathPostfix(prim)
}

func (p *parser) parsePathPostfix(inner ast.PathExpr) (ast.PathExpr, error) {
	for {
		switch {
		case p.isPunct("*"):
			if err := p.advance(); err != nil {
				return nil, err
			}
			inner = ast.PathZeroOrMore{Path: inner}
		case p.isPunct("+"):
			if err := p.advance(); err != nil {
				return nil, err
			}
			inner = ast.PathOneOrMore{Path: inner}
		case p.isPunct("?"):
			if err := p.advance(); err != nil {
				return nil, err
			}
			inner = ast.PathZeroOrOne{Path: inner}
		default:
			return inner, nil
		}
	}
}

func (p *parser) parsePathPrimary() (ast.PathExpr, error) {
	if ok, err := p.acceptPunct("("); err != nil {
		return nil, err
	} else if ok {
		inner, err := p.parsePathAlt()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	t, err := p.parseVarOrTerm()
	if err != nil {
		return nil, err
	}
	return ast.PathTerm{Term: t}, nil
}

// parseNegatedPathSet parses `!iri`, `!^iri`, or `!(iri1|^iri2|...)`.
func (p *parser) parseNegatedPathSet() (ast.PathExpr, error) {
	var iris []ast.Term
	var inv []bool

	parseOne := func() error {
		inverse := false
		if p.isPunct("^") {
			inverse = true
			if err := p.advance(); err != nil {
				return err
			}
		}
		t, err := p.parseVarOrTerm()
		if err != nil {
			return err
		}
		iris = append(iris, t)
		inv = append(inv, inverse)
		return nil
	}

	if ok, err := p.acceptPunct("("); err != nil {
		return nil, err
	} else if ok {
		if !p.isPunct(")") {
			if err := parseOne(); err != nil {
				return nil, err
			}
			for p.isPunct("|") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				if err := parseOne(); err != nil {
					return nil, err
				}
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	} else {
		if err := parseOne(); err != nil {
			return nil, err
		}
	}
	return ast.PathNegatedSet{IRIs: iris, Inverse: inv}, nil
}
