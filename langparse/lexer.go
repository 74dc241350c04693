package langparse

import (
	"strings"

	"github.com/kbvault/sparql/ast"
)

// lexer tokenizes SPARQL query text, following the teacher's tokenizer
// shape of an index cursor plus line/col bookkeeping, one rune of
// lookahead at a time.
type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) errorf(msg string) *ast.SyntaxError {
	return &ast.SyntaxError{Line: l.line, Col: l.col, Msg: msg}
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) skipTrivia() {
	for l.pos < len(l.src) {
		c := l.peekByte()
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			l.advance()
			continue
		}
		if c == '#' {
			for l.pos < len(l.src) && l.peekByte() != '\n' {
				l.advance()
			}
			continue
		}
		break
	}
}

func isWordStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isWordChar(c byte) bool {
	return isWordStart(c) || c >= '0' && c <= '9' || c == '-' || c == '.'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// next returns the next token in the stream.
func (l *lexer) next() (token, error) {
	l.skipTrivia()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: l.line, col: l.col}, nil
	}

	line, col := l.line, l.col
	c := l.peekByte()

	switch {
	case c == '<':
		return l.lexIRI(line, col)
	case c == '?' || c == '$':
		return l.lexVar(line, col)
	case c == '"' || c == '\'':
		return l.lexString(line, col)
	case c == '@':
		return l.lexLangTag(line, col)
	case isDigit(c) || (c == '+' || c == '-') && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]):
		return l.lexNumber(line, col)
	case isWordStart(c):
		return l.lexWordOrPName(line, col)
	default:
		return l.lexPunct(line, col)
	}
}

func (l *lexer) lexIRI(line, col int) (token, error) {
	l.advance() // '<'
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, l.errorf("unterminated IRI")
		}
		c := l.advance()
		if c == '>' {
			break
		}
		sb.WriteByte(c)
	}
	return token{kind: tokIRI, text: sb.String(), line: line, col: col}, nil
}

func (l *lexer) lexVar(line, col int) (token, error) {
	l.advance() // ? or $
	var sb strings.Builder
	for l.pos < len(l.src) && isWordChar(l.peekByte()) {
		sb.WriteByte(l.advance())
	}
	if sb.Len() == 0 {
		return token{}, l.errorf("empty variable name")
	}
	return token{kind: tokVar, text: sb.String(), line: line, col: col}, nil
}

func (l *lexer) lexString(line, col int) (token, error) {
	quote := l.advance()
	triple := false
	if l.pos+1 < len(l.src) && l.src[l.pos] == quote && l.src[l.pos+1] == quote {
		l.advance()
		l.advance()
		triple = true
	}
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, l.errorf("unterminated string literal")
		}
		c := l.peekByte()
		if c == '\\' && l.pos+1 < len(l.src) {
			l.advance()
			esc := l.advance()
			sb.WriteByte(decodeEscape(esc))
			continue
		}
		if c == quote {
			if !triple {
				l.advance()
				break
			}
			if l.pos+2 < len(l.src) && l.src[l.pos+1] == quote && l.src[l.pos+2] == quote {
				l.advance()
				l.advance()
				l.advance()
				break
			}
		}
		sb.WriteByte(l.advance())
	}
	return token{kind: tokString, text: sb.String(), line: line, col: col}, nil
}

func decodeEscape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

func (l *lexer) lexLangTag(line, col int) (token, error) {
	l.advance() // '@'
	var sb strings.Builder
	for l.pos < len(l.src) && (isWordChar(l.peekByte())) {
		sb.WriteByte(l.advance())
	}
	return token{kind: tokLangTag, text: sb.String(), line: line, col: col}, nil
}

func (l *lexer) lexNumber(line, col int) (token, error) {
	var sb strings.Builder
	if l.peekByte() == '+' || l.peekByte() == '-' {
		sb.WriteByte(l.advance())
	}
	isDec, isDouble := false, false
	for l.pos < len(l.src) && isDigit(l.peekByte()) {
		sb.WriteByte(l.advance())
	}
	if l.peekByte() == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
		isDec = true
		sb.WriteByte(l.advance())
		for l.pos < len(l.src) && isDigit(l.peekByte()) {
			sb.WriteByte(l.advance())
		}
	}
	if l.peekByte() == 'e' || l.peekByte() == 'E' {
		isDouble = true
		sb.WriteByte(l.advance())
		if l.peekByte() == '+' || l.peekByte() == '-' {
			sb.WriteByte(l.advance())
		}
		for l.pos < len(l.src) && isDigit(l.peekByte()) {
			sb.WriteByte(l.advance())
		}
	}
	k := tokInteger
	if isDouble {
		k = tokDouble
	} else if isDec {
		k = tokDecimal
	}
	return token{kind: k, text: sb.String(), line: line, col: col}, nil
}

func (l *lexer) lexWordOrPName(line, col int) (token, error) {
	var sb strings.Builder
	for l.pos < len(l.src) && isWordChar(l.peekByte()) {
		sb.WriteByte(l.advance())
	}
	if l.peekByte() == ':' {
		word := sb.String()
		sb.WriteByte(l.advance())
		for l.pos < len(l.src) && isWordChar(l.peekByte()) {
			sb.WriteByte(l.advance())
		}
		if word == "_" {
			return token{kind: tokBlank, text: strings.TrimPrefix(sb.String(), "_:"), line: line, col: col}, nil
		}
		return token{kind: tokPName, text: sb.String(), line: line, col: col}, nil
	}
	word := sb.String()
	upper := strings.ToUpper(word)
	if keywords[upper] {
		if upper == "TRUE" || upper == "FALSE" {
			return token{kind: tokBoolean, text: upper, line: line, col: col}, nil
		}
		return token{kind: tokKeyword, text: upper, line: line, col: col}, nil
	}
	return token{kind: tokKeyword, text: upper, line: line, col: col}, nil
}

func (l *lexer) lexPunct(line, col int) (token, error) {
	two := ""
	if l.pos+1 < len(l.src) {
		two = l.src[l.pos : l.pos+2]
	}
	switch two {
	case "&&", "||", "!=", "<=", ">=", "<<", ">>":
		l.advance()
		l.advance()
		return token{kind: tokPunct, text: two, line: line, col: col}, nil
	}
	c := l.advance()
	return token{kind: tokPunct, text: string(c), line: line, col: col}, nil
}
