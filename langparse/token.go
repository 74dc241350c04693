package langparse

// kind identifies a lexical token class.
type kind int

const (
	tokEOF kind = iota
	tokIRI
	tokPName    // prefix:local
	tokVar      // ?x or $x
	tokBlank    // _:label
	tokString
	tokInteger
	tokDecimal
	tokDouble
	tokBoolean
	tokKeyword // case-insensitive keyword, canonicalized upper-case
	tokPunct   // single/multi-char punctuation: { } ( ) . , ; | / ^ * + ? ! = etc.
	tokLangTag // @lang or @lang--dir, text after '@'
)

type token struct {
	kind kind
	text string
	line int
	col  int
}

var keywords = map[string]bool{
	"SELECT": true, "CONSTRUCT": true, "ASK": true, "DESCRIBE": true,
	"WHERE": true, "FROM": true, "NAMED": true, "DISTINCT": true, "REDUCED": true,
	"OPTIONAL": true, "UNION": true, "MINUS": true, "GRAPH": true, "SERVICE": true,
	"SILENT": true, "FILTER": true, "BIND": true, "VALUES": true, "UNDEF": true,
	"GROUP": true, "BY": true, "HAVING": true, "ORDER": true, "ASC": true, "DESC": true,
	"LIMIT": true, "OFFSET": true, "AS": true, "PREFIX": true, "BASE": true,
	"INSERT": true, "DELETE": true, "DATA": true, "EXISTS": true, "NOT": true,
	"IN": true, "A": true, "TRUE": true, "FALSE": true, "LATERAL": true,
}
