package langparse

import "github.com/kbvault/sparql/ast"

// parseGroupGraphPattern parses a `{ ... }` WHERE-clause block into a
// GroupPattern, collecting triples, BIND/FILTER clauses, and inline
// OPTIONAL/UNION/MINUS/GRAPH/SERVICE/subquery/VALUES elements in
// source order.
func (p *parser) parseGroupGraphPattern() (ast.GraphPattern, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}

	group := ast.GroupPattern{}

	for !p.isPunct("}") {
		gp, err := p.parseGroupElement(&group)
		if err != nil {
			return nil, err
		}
		if gp != nil {
			group.Inline = append(group.Inline, gp)
		}

		if ok, err := p.acceptPunct("."); err != nil {
			return nil, err
		} else if !ok && p.isPunct("}") {
			break
		}
	}

	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return group, nil
}

// parseGroupOrUnion parses a `{ ... }` that may be a nested subquery
// (starting with SELECT) or an ordinary group, followed by zero or
// more `UNION { ... }` continuations.
func (p *parser) parseGroupOrUnion() (ast.GraphPattern, error) {
	left, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("UNION") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBraceBlock()
		if err != nil {
			return nil, err
		}
		left = ast.UnionPattern{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseBraceBlock() (ast.GraphPattern, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	if p.isKeyword("SELECT") {
		sel, err := p.parseSelectQuery()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
		return ast.SubqueryPattern{Query: *sel}, nil
	}
	// rewind: re-enter as an ordinary group body, reusing the same
	// group-parsing loop by constructing it manually since the '{' was
	// already consumed.
	group := ast.GroupPattern{}
	for !p.isPunct("}") {
		gp, err := p.parseGroupElement(&group)
		if err != nil {
			return nil, err
		}
		if gp != nil {
			group.Inline = append(group.Inline, gp)
		}
		if ok, err := p.acceptPunct("."); err != nil {
			return nil, err
		} else if !ok && p.isPunct("}") {
			break
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return group, nil
}

// parseGroupElement parses one element of a group body (everything
// parseGroupGraphPattern's loop handles) and appends directly into
// triples/binds/filters, returning a non-nil GraphPattern only for
// elements that belong in Inline.
func (p *parser) parseGroupElement(group *ast.GroupPattern) (ast.GraphPattern, error) {
	switch {
	case p.isKeyword("OPTIONAL"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		return ast.OptionalPattern{Pattern: inner}, nil
	case p.isKeyword("MINUS"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		return ast.MinusPattern{Pattern: inner}, nil
	case p.isKeyword("GRAPH"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, err := p.parseVarOrTerm()
		if err != nil {
			return nil, err
		}
		inner, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		return ast.GraphNamePattern{Name: name, Pattern: inner}, nil
	case p.isKeyword("SERVICE"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		silent, err := p.acceptKeyword("SILENT")
		if err != nil {
			return nil, err
		}
		name, err := p.parseVarOrTerm()
		if err != nil {
			return nil, err
		}
		inner, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		return ast.ServicePattern{Silent: silent, Name: name, Pattern: inner}, nil
	case p.isKeyword("FILTER"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseConstraint()
		if err != nil {
			return nil, err
		}
		group.Filters = append(group.Filters, e)
		return nil, nil
	case p.isKeyword("BIND"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct("("); err != nil {
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
		group.Binds = append(group.Binds, ast.BindClause{Expr: e, Var: v})
		return nil, nil
	case p.isKeyword("VALUES"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseValuesClause()
	case p.isPunct("{"):
		return p.parseGroupOrUnion()
	default:
		triples, err := p.parseTriplesBlock()
		if err != nil {
			return nil, err
		}
		group.Triples = append(group.Triples, triples...)
		return nil, nil
	}
}

// parseValuesClause parses `VALUES (?x ?y) { (1 2) (UNDEF 3) }` or the
// single-variable form `VALUES ?x { 1 2 3 }`.
func (p *parser) parseValuesClause() (ast.GraphPattern, error) {
	var vars []string
	if ok, err := p.acceptPunct("("); err != nil {
		return nil, err
	} else if ok {
		for !p.isPunct(")") {
			if p.cur.kind != tokVar {
				return nil, p.errorf("expected variable in VALUES clause")
			}
			vars = append(vars, p.cur.text)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	} else {
		if p.cur.kind != tokVar {
			return nil, p.errorf("expected variable in VALUES clause")
		}
		vars = []string{p.cur.text}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var rows [][]ast.Term
	for !p.isPunct("}") {
		row, err := p.parseValuesRow(len(vars))
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return ast.ValuesPattern{Vars: vars, Bindings: rows}, nil
}

func (p *parser) parseValuesRow(width int) ([]ast.Term, error) {
	paren := width != 1
	if paren {
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
	}
	row := make([]ast.Term, 0, width)
	for i := 0; i < width; i++ {
		if p.isKeyword("UNDEF") {
			row = append(row, nil)
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		t, err := p.parseVarOrTerm()
		if err != nil {
			return nil, err
		}
		row = append(row, t)
	}
	if paren {
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}
	return row, nil
}
