package function

import "github.com/kbvault/sparql/term"

// XSD/RDF datatype IRI constants, duplicated from the expression
// package's own copy (see expression/datatypes.go) since function must
// not import expression (expression imports function, not the reverse).
const (
	xsdBoolean  = "http://www.w3.org/2001/XMLSchema#boolean"
	xsdInteger  = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDecimal  = "http://www.w3.org/2001/XMLSchema#decimal"
	xsdDouble   = "http://www.w3.org/2001/XMLSchema#double"
	xsdDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
)

func boolTerm(b bool) term.Term {
	lex := "false"
	if b {
		lex = "true"
	}
	return term.Literal{Lexical: lex, Datatype: xsdBoolean}
}
