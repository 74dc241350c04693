package aggregation

import (
	"strings"

	"github.com/kbvault/sparql/term"
)

// groupConcatAgg implements GROUP_CONCAT(expr), joining the lexical
// forms of the stepped values with separator. The registry's
// constructor sets separator to a single space and nothing changes it:
// the parser does not accept a `; SEPARATOR = "sep"` clause, and the
// executor does not configure GROUP_CONCAT from any call argument.
type groupConcatAgg struct {
	separator string
	parts     []string
	any       bool
}

func (g *groupConcatAgg) Step(v term.Term) error {
	if v == nil {
		return nil
	}
	g.parts = append(g.parts, lexicalFormOf(v))
	g.any = true
	return nil
}

func (g *groupConcatAgg) Finalize() (term.Term, error) {
	if !g.any {
		return term.NewString(""), nil
	}
	return term.NewString(strings.Join(g.parts, g.separator)), nil
}

func lexicalFormOf(t term.Term) string {
	switch v := t.(type) {
	case term.Literal:
		return v.Lexical
	case term.IRI:
		return v.Value
	default:
		return t.String()
	}
}

// SetSeparator overrides the default single-space separator. The
// executor does not call it.
func (g *groupConcatAgg) SetSeparator(sep string) {
	g.separator = sep
}
