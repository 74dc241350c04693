package langparse

import "github.com/kbvault/sparql/ast"

// parseConstraint parses a FILTER or HAVING argument, which must be a
// parenthesized expression: a built-in call or EXISTS/NOT EXISTS
// written without the outer parentheses is rejected.
func (p *parser) parseConstraint() (ast.Expr, error) {
	return p.parseBracketedExpr()
}

func (p *parser) parseBracketedExpr() (ast.Expr, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return e, nil
}

// parseExpr parses the full expression grammar by precedence climbing:
// Or -> And -> Equality/Relational -> Additive -> Multiplicative ->
// Unary -> Primary.
func (p *parser) parseExpr() (ast.Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isPunct("||") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.isPunct("&&") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

var relOps = map[string]bool{"=": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}

func (p *parser) parseRelational() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.isKeyword("IN") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		set, err := p.parseExprSet()
		if err != nil {
			return nil, err
		}
		return ast.InExpr{Operand: left, Set: set}, nil
	}
	if p.isKeyword("NOT") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("IN"); err != nil {
			return nil, err
		}
		set, err := p.parseExprSet()
		if err != nil {
			return nil, err
		}
		return ast.InExpr{Negated: true, Operand: left, Set: set}, nil
	}
	if p.cur.kind == tokPunct && relOps[p.cur.text] {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return ast.BinaryExpr{Op: op, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseExprSet() ([]ast.Expr, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var set []ast.Expr
	for !p.isPunct(")") {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		set = append(set, e)
		if ok, err := p.acceptPunct(","); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return set, nil
}

func (p *parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.isPunct("+") || p.isPunct("-") {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isPunct("*") || p.isPunct("/") {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (ast.Expr, error) {
	if p.isPunct("!") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.UnaryExpr{Op: "!", Operand: operand}, nil
	}
	if p.isPunct("-") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.UnaryExpr{Op: "-", Operand: operand}, nil
	}
	if p.isPunct("+") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	switch {
	case p.isPunct("("):
		return p.parseBracketedExpr()

	case p.isKeyword("NOT"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("EXISTS"); err != nil {
			return nil, err
		}
		pat, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		return ast.ExistsExpr{Negated: true, Pattern: pat}, nil

	case p.isKeyword("EXISTS"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		pat, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		return ast.ExistsExpr{Pattern: pat}, nil

	case p.cur.kind == tokKeyword && p.isCallKeyword():
		return p.parseFunctionCall()

	default:
		t, err := p.parseVarOrTerm()
		if err != nil {
			return nil, err
		}
		return ast.TermExpr{Term: t}, nil
	}
}

// isCallKeyword reports whether the current keyword token begins a
// built-in function call (identified by being followed by `(`), as
// opposed to a bare grammar keyword like AS/WHERE.
func (p *parser) isCallKeyword() bool {
	return p.peekIsPunct("(")
}

func (p *parser) peekIsPunct(s string) bool {
	save := *p.lex
	tok, err := p.lex.next()
	*p.lex = save
	return err == nil && tok.kind == tokPunct && tok.text == s
}

// parseFunctionCall parses `NAME(args...)` including the DISTINCT
// modifier accepted inside aggregate calls.
func (p *parser) parseFunctionCall() (ast.Expr, error) {
	name := p.cur.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	distinct, err := p.acceptKeyword("DISTINCT")
	if err != nil {
		return nil, err
	}
	var args []ast.Expr
	if p.isPunct("*") { // COUNT(*)
		if err := p.advance(); err != nil {
			return nil, err
		}
		args = nil
	} else {
		for !p.isPunct(")") {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, e)
			if ok, err := p.acceptPunct(","); err != nil {
				return nil, err
			} else if !ok {
				break
			}
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return ast.CallExpr{Name: name, Args: args, Distinct: distinct}, nil
}
