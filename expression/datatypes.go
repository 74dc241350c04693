package expression

// XSD and RDF datatype IRIs used throughout expression evaluation.
// Mirrors the constants langparse/term.go resolves literal suffixes to,
// duplicated here since expression must not import langparse (a parser
// concern) just for these strings.
const (
	xsdString  = "http://www.w3.org/2001/XMLSchema#string"
	xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDecimal = "http://www.w3.org/2001/XMLSchema#decimal"
	xsdDouble  = "http://www.w3.org/2001/XMLSchema#double"
	xsdDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
	xsdDate     = "http://www.w3.org/2001/XMLSchema#date"
	xsdDuration = "http://www.w3.org/2001/XMLSchema#duration"
	xsdDayTimeDuration = "http://www.w3.org/2001/XMLSchema#dayTimeDuration"
	rdfLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)
