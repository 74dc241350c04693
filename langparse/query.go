package langparse

import "github.com/kbvault/sparql/ast"

func (p *parser) parseSelectQuery() (*ast.SelectQuery, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}
	sel := &ast.SelectQuery{}

	if ok, err := p.acceptKeyword("DISTINCT"); err != nil {
		return nil, err
	} else if ok {
		sel.Distinct = true
	} else if ok, err := p.acceptKeyword("REDUCED"); err != nil {
		return nil, err
	} else if ok {
		sel.Reduced = true
	}

	if p.isPunct("*") {
		sel.Star = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else {
		for p.cur.kind == tokVar || p.isPunct("(") {
			if p.cur.kind == tokVar {
				sel.Vars = append(sel.Vars, ast.SelectVar{Var: p.cur.text})
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			if err := p.advance(); err != nil { // '('
				return nil, err
			}
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectKeyword("AS"); err != nil {
				return nil, err
			}
			if p.cur.kind != tokVar {
				return nil, p.errorf("expected variable after AS")
			}
			v := p.cur.text
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			sel.Vars = append(sel.Vars, ast.SelectVar{Var: v, Expr: e})
		}
	}

	// FROM / FROM NAMED are accepted and ignored: the engine's dataset
	// is always the store passed to Execute, not a query-named graph
	// set, matching the out-of-scope note on remote data sources.
	for p.isKeyword("FROM") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.acceptKeyword("NAMED"); err != nil {
			return nil, err
		}
		if p.cur.kind != tokIRI && p.cur.kind != tokPName {
			return nil, p.errorf("expected IRI after FROM")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword("WHERE"); err != nil {
		return nil, err
	}
	where, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}
	sel.Where = where

	if err := p.parseSolutionModifiers(&sel.GroupBy, &sel.Having, &sel.OrderBy, &sel.Limit, &sel.Offset); err != nil {
		return nil, err
	}
	return sel, nil
}

func (p *parser) parseConstructQuery() (*ast.ConstructQuery, error) {
	if err := p.expectKeyword("CONSTRUCT"); err != nil {
		return nil, err
	}
	c := &ast.ConstructQuery{}

	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.isPunct("}") {
		triples, err := p.parseTriplesBlock()
		if err != nil {
			return nil, err
		}
		c.Template = append(c.Template, triples...)
		if ok, err := p.acceptPunct("."); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}

	if err := p.expectKeyword("WHERE"); err != nil {
		return nil, err
	}
	where, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}
	c.Where = where

	var groupBy, having []ast.Expr
	if err := p.parseSolutionModifiers(&groupBy, &having, &c.OrderBy, &c.Limit, &c.Offset); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *parser) parseAskQuery() (*ast.AskQuery, error) {
	if err := p.expectKeyword("ASK"); err != nil {
		return nil, err
	}
	// WHERE is optional in ASK queries.
	if _, err := p.acceptKeyword("WHERE"); err != nil {
		return nil, err
	}
	where, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}
	return &ast.AskQuery{Where: where}, nil
}

func (p *parser) parseDescribeQuery() (*ast.DescribeQuery, error) {
	if err := p.expectKeyword("DESCRIBE"); err != nil {
		return nil, err
	}
	d := &ast.DescribeQuery{}

	if p.isPunct("*") {
		d.Star = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else {
		for p.cur.kind == tokIRI || p.cur.kind == tokPName || p.cur.kind == tokVar {
			t, err := p.parseVarOrTerm()
			if err != nil {
				return nil, err
			}
			d.Seeds = append(d.Seeds, t)
		}
	}

	if p.isKeyword("WHERE") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		where, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		d.Where = where
	}
	return d, nil
}

func (p *parser) parseUpdateOperation() (*ast.UpdateOperation, error) {
	insert := p.isKeyword("INSERT")
	if insert {
		if err := p.expectKeyword("INSERT"); err != nil {
			return nil, err
		}
	} else {
		if err := p.expectKeyword("DELETE"); err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword("DATA"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var quads []ast.QuadPattern
	for !p.isPunct("}") {
		graph := ""
		if p.isKeyword("GRAPH") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			t, err := p.parseVarOrTerm()
			if err != nil {
				return nil, err
			}
			iri, ok := t.(ast.IRITerm)
			if !ok {
				return nil, p.errorf("GRAPH name must be an IRI in INSERT/DELETE DATA")
			}
			graph = iri.Value
			if err := p.expectPunct("{"); err != nil {
				return nil, err
			}
			for !p.isPunct("}") {
				q, err := p.parseGroundQuad(graph)
				if err != nil {
					return nil, err
				}
				quads = append(quads, q)
				if ok, err := p.acceptPunct("."); err != nil {
					return nil, err
				} else if !ok {
					break
				}
			}
			if err := p.expectPunct("}"); err != nil {
				return nil, err
			}
			continue
		}
		q, err := p.parseGroundQuad(graph)
		if err != nil {
			return nil, err
		}
		quads = append(quads, q)
		if ok, err := p.acceptPunct("."); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return &ast.UpdateOperation{Insert: insert, Quads: quads}, nil
}

func (p *parser) parseGroundQuad(graph string) (ast.QuadPattern, error) {
	s, err := p.parseVarOrTerm()
	if err != nil {
		return ast.QuadPattern{}, err
	}
	pr, err := p.parseVarOrTerm()
	if err != nil {
		return ast.QuadPattern{}, err
	}
	o, err := p.parseVarOrTerm()
	if err != nil {
		return ast.QuadPattern{}, err
	}
	return ast.QuadPattern{Subject: s, Predicate: pr, Object: o, Graph: graph}, nil
}

// parseSolutionModifiers parses the shared GROUP BY / HAVING / ORDER BY
// / LIMIT / OFFSET suffix common to SELECT and CONSTRUCT.
func (p *parser) parseSolutionModifiers(groupBy, having *[]ast.Expr, orderBy *[]ast.OrderCondition, limit, offset **int) error {
	if p.isKeyword("GROUP") {
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.expectKeyword("BY"); err != nil {
			return err
		}
		for {
			e, err := p.parseGroupByElement()
			if err != nil {
				return err
			}
			*groupBy = append(*groupBy, e)
			if !(p.cur.kind == tokVar || p.isPunct("(") || p.cur.kind == tokKeyword) {
				break
			}
			if p.isKeyword("HAVING") || p.isKeyword("ORDER") || p.isKeyword("LIMIT") || p.isKeyword("OFFSET") {
				break
			}
		}
	}

	if p.isKeyword("HAVING") {
		if err := p.advance(); err != nil {
			return err
		}
		for {
			e, err := p.parseConstraint()
			if err != nil {
				return err
			}
			*having = append(*having, e)
			if p.isKeyword("ORDER") || p.isKeyword("LIMIT") || p.isKeyword("OFFSET") || p.isPunct("}") || p.cur.kind == tokEOF {
				break
			}
		}
	}

	if p.isKeyword("ORDER") {
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.expectKeyword("BY"); err != nil {
			return err
		}
		for {
			cond, err := p.parseOrderCondition()
			if err != nil {
				return err
			}
			*orderBy = append(*orderBy, cond)
			if p.isKeyword("LIMIT") || p.isKeyword("OFFSET") || p.cur.kind == tokEOF || p.isPunct("}") {
				break
			}
		}
	}

	if p.isKeyword("LIMIT") {
		if err := p.advance(); err != nil {
			return err
		}
		if p.cur.kind != tokInteger {
			return p.errorf("expected integer after LIMIT")
		}
		n, err := parseIntLiteral(p.cur.text)
		if err != nil {
			return p.errorf("invalid LIMIT value")
		}
		*limit = &n
		if err := p.advance(); err != nil {
			return err
		}
	}

	if p.isKeyword("OFFSET") {
		if err := p.advance(); err != nil {
			return err
		}
		if p.cur.kind != tokInteger {
			return p.errorf("expected integer after OFFSET")
		}
		n, err := parseIntLiteral(p.cur.text)
		if err != nil {
			return p.errorf("invalid OFFSET value")
		}
		*offset = &n
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parseGroupByElement() (ast.Expr, error) {
	if p.cur.kind == tokVar {
		t := ast.VarTerm{Name: p.cur.text}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.TermExpr{Term: t}, nil
	}
	if ok, err := p.acceptPunct("("); err != nil {
		return nil, err
	} else if ok {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if ok2, err := p.acceptKeyword("AS"); err != nil {
			return nil, err
		} else if ok2 {
			if p.cur.kind != tokVar {
				return nil, p.errorf("expected variable after AS")
			}
			v := p.cur.text
			if err := p.advance(); err != nil {
				return nil, err
			}
			e = ast.BinaryExpr{Op: "AS", Left: e, Right: ast.TermExpr{Term: ast.VarTerm{Name: v}}}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return e, nil
	}
	return p.parsePrimary()
}

func (p *parser) parseOrderCondition() (ast.OrderCondition, error) {
	desc := false
	if ok, err := p.acceptKeyword("ASC"); err != nil {
		return ast.OrderCondition{}, err
	} else if ok {
	} else if ok, err := p.acceptKeyword("DESC"); err != nil {
		return ast.OrderCondition{}, err
	} else if ok {
		desc = true
	}
	e, err := p.parseUnary()
	if err != nil {
		return ast.OrderCondition{}, err
	}
	return ast.OrderCondition{Expr: e, Desc: desc}, nil
}
