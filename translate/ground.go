package translate

import (
	"github.com/pkg/errors"

	"github.com/kbvault/sparql/ast"
	"github.com/kbvault/sparql/term"
)

// GroundTerm resolves a syntactic term that must already be fully bound
// (no variable) to its runtime term.Term, for INSERT DATA / DELETE DATA
// quads where the grammar forbids variables outright.
func GroundTerm(t ast.Term) (term.Term, error) {
	at, err := translateTerm(t)
	if err != nil {
		return nil, err
	}
	if at.IsVar() {
		return nil, errors.New("SyntaxError: variables are not permitted in INSERT DATA/DELETE DATA")
	}
	return at.Value, nil
}
