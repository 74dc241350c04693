package function

import (
	"github.com/kbvault/sparql/kerrors"
	"github.com/kbvault/sparql/term"
)

const rdfLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"

func registerTermFuncs(r *Registry) {
	r.Register("IRI", fnIRI)
	r.Register("URI", fnIRI)
	r.Register("BNODE", fnBnode)
	r.Register("STRDT", fnStrdt)
	r.Register("STRLANG", fnStrlang)
	r.Register("DATATYPE", fnDatatype)
	r.Register("ISIRI", fnIsIRI)
	r.Register("ISURI", fnIsIRI)
	r.Register("ISLITERAL", fnIsLiteral)
	r.Register("ISBLANK", fnIsBlank)
	r.Register("ISNUMERIC", fnIsNumeric)
	r.Register("SAMETERM", fnSameTerm)
}

func fnIRI(args []term.Term) (term.Term, error) {
	if len(args) != 1 {
		return nil, kerrors.New(kerrors.KindTypeError, "IRI takes one argument")
	}
	s, ok := lexicalOf(args[0])
	if !ok {
		return nil, kerrors.New(kerrors.KindTypeError, "IRI argument must be a string or IRI")
	}
	return term.IRI{Value: s}, nil
}

// fnBnode implements BNODE/0 (a fresh blank node per call) and BNODE/1
// (a blank node scoped to the given label, stable across a single
// solution so repeated calls with the same label in one row bind the
// same node). Full per-solution scoping belongs to the executor, which
// can memoize by label; this function alone only guarantees a
// deterministic label-derived id.
func fnBnode(args []term.Term) (term.Term, error) {
	switch len(args) {
	case 0:
		return term.NewBlank(), nil
	case 1:
		s, ok := lexicalOf(args[0])
		if !ok {
			return nil, kerrors.New(kerrors.KindTypeError, "BNODE argument must be a string")
		}
		return term.NewBlankNamed("bn_" + s), nil
	default:
		return nil, kerrors.New(kerrors.KindTypeError, "BNODE takes zero or one arguments")
	}
}

func fnStrdt(args []term.Term) (term.Term, error) {
	if len(args) != 2 {
		return nil, kerrors.New(kerrors.KindTypeError, "STRDT takes two arguments")
	}
	lex, ok := lexicalOf(args[0])
	if !ok {
		return nil, kerrors.New(kerrors.KindTypeError, "STRDT first argument must be string-like")
	}
	dt, ok := args[1].(term.IRI)
	if !ok {
		return nil, kerrors.New(kerrors.KindTypeError, "STRDT second argument must be an IRI")
	}
	return term.NewTyped(lex, dt.Value), nil
}

func fnStrlang(args []term.Term) (term.Term, error) {
	if len(args) != 2 {
		return nil, kerrors.New(kerrors.KindTypeError, "STRLANG takes two arguments")
	}
	lex, ok := lexicalOf(args[0])
	if !ok {
		return nil, kerrors.New(kerrors.KindTypeError, "STRLANG first argument must be string-like")
	}
	lang, ok := lexicalOf(args[1])
	if !ok {
		return nil, kerrors.New(kerrors.KindTypeError, "STRLANG second argument must be string-like")
	}
	return term.NewLangString(lex, lang, term.DirectionNone), nil
}

func fnDatatype(args []term.Term) (term.Term, error) {
	if len(args) != 1 {
		return nil, kerrors.New(kerrors.KindTypeError, "DATATYPE takes one argument")
	}
	lit, ok := args[0].(term.Literal)
	if !ok {
		return nil, kerrors.New(kerrors.KindTypeError, "DATATYPE argument must be a literal")
	}
	return term.IRI{Value: lit.EffectiveDatatype()}, nil
}

func fnIsIRI(args []term.Term) (term.Term, error) {
	if len(args) != 1 {
		return nil, kerrors.New(kerrors.KindTypeError, "isIRI takes one argument")
	}
	return boolTerm(term.IsIRI(args[0])), nil
}

func fnIsLiteral(args []term.Term) (term.Term, error) {
	if len(args) != 1 {
		return nil, kerrors.New(kerrors.KindTypeError, "isLITERAL takes one argument")
	}
	return boolTerm(term.IsLiteral(args[0])), nil
}

func fnIsBlank(args []term.Term) (term.Term, error) {
	if len(args) != 1 {
		return nil, kerrors.New(kerrors.KindTypeError, "isBLANK takes one argument")
	}
	return boolTerm(term.IsBlank(args[0])), nil
}

func fnIsNumeric(args []term.Term) (term.Term, error) {
	if len(args) != 1 {
		return nil, kerrors.New(kerrors.KindTypeError, "isNUMERIC takes one argument")
	}
	_, ok := asNumeric(args[0])
	return boolTerm(ok), nil
}

func fnSameTerm(args []term.Term) (term.Term, error) {
	if len(args) != 2 {
		return nil, kerrors.New(kerrors.KindTypeError, "sameTerm takes two arguments")
	}
	return boolTerm(args[0].Equals(args[1])), nil
}
