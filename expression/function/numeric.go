package function

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/kbvault/sparql/kerrors"
	"github.com/kbvault/sparql/term"
)

func registerNumericFuncs(r *Registry) {
	r.Register("ABS", fnAbs)
	r.Register("ROUND", fnRound)
	r.Register("CEIL", fnCeil)
	r.Register("FLOOR", fnFloor)
	r.Register("RAND", fnRand)
}

type numeric struct {
	f         float64
	isInteger bool
}

func asNumeric(t term.Term) (numeric, bool) {
	lit, ok := t.(term.Literal)
	if !ok {
		return numeric{}, false
	}
	switch lit.EffectiveDatatype() {
	case xsdInteger:
		f, err := strconv.ParseFloat(lit.Lexical, 64)
		if err != nil {
			return numeric{}, false
		}
		return numeric{f: f, isInteger: true}, true
	case xsdDecimal, xsdDouble:
		f, err := strconv.ParseFloat(lit.Lexical, 64)
		if err != nil {
			return numeric{}, false
		}
		return numeric{f: f}, true
	default:
		return numeric{}, false
	}
}

func numericTerm(v numeric) term.Term {
	if v.isInteger {
		return term.Literal{Lexical: strconv.FormatInt(int64(v.f), 10), Datatype: xsdInteger}
	}
	return term.Literal{Lexical: strconv.FormatFloat(v.f, 'g', -1, 64), Datatype: xsdDecimal}
}

func oneNumericArg(args []term.Term, fname string) (numeric, error) {
	if len(args) != 1 {
		return numeric{}, kerrors.New(kerrors.KindTypeError, fname+" takes one argument")
	}
	n, ok := asNumeric(args[0])
	if !ok {
		return numeric{}, kerrors.New(kerrors.KindTypeError, fname+" argument is not numeric")
	}
	return n, nil
}

func fnAbs(args []term.Term) (term.Term, error) {
	n, err := oneNumericArg(args, "ABS")
	if err != nil {
		return nil, err
	}
	n.f = math.Abs(n.f)
	return numericTerm(n), nil
}

func fnRound(args []term.Term) (term.Term, error) {
	n, err := oneNumericArg(args, "ROUND")
	if err != nil {
		return nil, err
	}
	if n.isInteger {
		return numericTerm(n), nil
	}
	n.f = math.Round(n.f)
	return numericTerm(n), nil
}

func fnCeil(args []term.Term) (term.Term, error) {
	n, err := oneNumericArg(args, "CEIL")
	if err != nil {
		return nil, err
	}
	if n.isInteger {
		return numericTerm(n), nil
	}
	n.f = math.Ceil(n.f)
	return numericTerm(n), nil
}

func fnFloor(args []term.Term) (term.Term, error) {
	n, err := oneNumericArg(args, "FLOOR")
	if err != nil {
		return nil, err
	}
	if n.isInteger {
		return numericTerm(n), nil
	}
	n.f = math.Floor(n.f)
	return numericTerm(n), nil
}

// fnRand returns a pseudo-random xsd:double in [0, 1). SPARQL leaves the
// source of randomness unspecified, so this uses math/rand directly
// rather than threading a seed through the evaluator.
func fnRand(args []term.Term) (term.Term, error) {
	if len(args) != 0 {
		return nil, kerrors.New(kerrors.KindTypeError, "RAND takes no arguments")
	}
	return term.Literal{Lexical: strconv.FormatFloat(rand.Float64(), 'g', -1, 64), Datatype: xsdDouble}, nil
}
