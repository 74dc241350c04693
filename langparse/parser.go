package langparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kbvault/sparql/ast"
)

// parser is a recursive-descent SPARQL parser, one token of lookahead,
// following the teacher's `type parser struct { tok *tokenizer }` shape:
// each grammar production is a method named after it.
type parser struct {
	lex        *lexer
	cur        token
	prefixes   map[string]string
	base       string
	blankSeq   int
}

// Parse parses a complete SPARQL query or update operation. Callers
// must have already run the query text through the rewrite pipeline
// (so it contains no PREFIX*, LATERAL, directional tags, triple-term
// parenthesized form, or CASE WHEN).
func Parse(text string) (*ast.Query, error) {
	p := &parser{lex: newLexer(text), prefixes: map[string]string{}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.parsePrologue(); err != nil {
		return nil, err
	}

	q := &ast.Query{Prefixes: p.prefixes, Base: p.base}

	switch {
	case p.isKeyword("SELECT"):
		sel, err := p.parseSelectQuery()
		if err != nil {
			return nil, err
		}
		q.Select = sel
	case p.isKeyword("CONSTRUCT"):
		c, err := p.parseConstructQuery()
		if err != nil {
			return nil, err
		}
		q.Construct = c
	case p.isKeyword("ASK"):
		a, err := p.parseAskQuery()
		if err != nil {
			return nil, err
		}
		q.Ask = a
	case p.isKeyword("DESCRIBE"):
		d, err := p.parseDescribeQuery()
		if err != nil {
			return nil, err
		}
		q.Describe = d
	case p.isKeyword("INSERT") || p.isKeyword("DELETE"):
		u, err := p.parseUpdateOperation()
		if err != nil {
			return nil, err
		}
		q.Update = u
	default:
		return nil, p.errorf("expected SELECT, CONSTRUCT, ASK, DESCRIBE, INSERT, or DELETE")
	}

	if p.cur.kind != tokEOF {
		return nil, p.errorf("unexpected trailing input %q", p.cur.text)
	}
	return q, nil
}

func (p *parser) errorf(format string, args ...interface{}) *ast.SyntaxError {
	return &ast.SyntaxError{Line: p.cur.line, Col: p.cur.col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) isKeyword(kw string) bool {
	return p.cur.kind == tokKeyword && p.cur.text == kw
}

func (p *parser) isPunct(s string) bool {
	return p.cur.kind == tokPunct && p.cur.text == s
}

func (p *parser) expectKeyword(kw string) error {
	if !p.isKeyword(kw) {
		return p.errorf("expected %q", kw)
	}
	return p.advance()
}

func (p *parser) expectPunct(s string) error {
	if !p.isPunct(s) {
		return p.errorf("expected %q", s)
	}
	return p.advance()
}

func (p *parser) acceptKeyword(kw string) (bool, error) {
	if p.isKeyword(kw) {
		return true, p.advance()
	}
	return false, nil
}

func (p *parser) acceptPunct(s string) (bool, error) {
	if p.isPunct(s) {
		return true, p.advance()
	}
	return false, nil
}

// parsePrologue consumes leading BASE/PREFIX declarations.
func (p *parser) parsePrologue() error {
	for {
		if p.isKeyword("BASE") {
			if err := p.advance(); err != nil {
				return err
			}
			if p.cur.kind != tokIRI {
				return p.errorf("expected IRI after BASE")
			}
			p.base = p.resolveIRI(p.cur.text)
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		if p.isKeyword("PREFIX") {
			if err := p.advance(); err != nil {
				return err
			}
			if p.cur.kind != tokPName {
				return p.errorf("expected prefix name after PREFIX")
			}
			name := strings.TrimSuffix(p.cur.text, ":")
			if err := p.advance(); err != nil {
				return err
			}
			if p.cur.kind != tokIRI {
				return p.errorf("expected IRI after PREFIX name")
			}
			p.prefixes[name] = p.resolveIRI(p.cur.text)
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

func (p *parser) resolveIRI(raw string) string {
	if p.base == "" || strings.Contains(raw, "://") {
		return raw
	}
	return p.base + raw
}

func (p *parser) resolvePName(pname string) (string, error) {
	idx := strings.IndexByte(pname, ':')
	if idx < 0 {
		return "", p.errorf("malformed prefixed name %q", pname)
	}
	prefix, local := pname[:idx], pname[idx+1:]
	ns, ok := p.prefixes[prefix]
	if !ok {
		return "", p.errorf("undefined prefix %q", prefix)
	}
	return ns + local, nil
}

func (p *parser) newBlank() string {
	p.blankSeq++
	return "" // anonymous: translator assigns a fresh identifier per occurrence
}

func parseIntLiteral(s string) (int, error) {
	return strconv.Atoi(s)
}
