package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCaseWhenTransformSingleClause(t *testing.T) {
	query := `SELECT (CASE WHEN ?x > 0 THEN "pos" ELSE "nonpos" END AS ?sign) WHERE { ?s ?p ?x }`
	out, err := CaseWhenTransform(query)
	require.NoError(t, err)
	require.Equal(t, `SELECT (IF(?x > 0, "pos", "nonpos") AS ?sign) WHERE { ?s ?p ?x }`, out)
}

func TestCaseWhenTransformMultipleClausesAreRightAssociated(t *testing.T) {
	query := `SELECT (CASE WHEN ?x > 10 THEN "big" WHEN ?x > 0 THEN "small" ELSE "nonpos" END AS ?sign) WHERE { ?s ?p ?x }`
	out, err := CaseWhenTransform(query)
	require.NoError(t, err)
	require.Equal(t, `SELECT (IF(?x > 10, "big", IF(?x > 0, "small", "nonpos")) AS ?sign) WHERE { ?s ?p ?x }`, out)
}

func TestCaseWhenTransformWithoutElseUsesUnboundTail(t *testing.T) {
	query := `SELECT (CASE WHEN ?x > 0 THEN "pos" END AS ?sign) WHERE { ?s ?p ?x }`
	out, err := CaseWhenTransform(query)
	require.NoError(t, err)
	require.Equal(t, `SELECT (IF(?x > 0, "pos", ?__CASE_UNBOUND__) AS ?sign) WHERE { ?s ?p ?x }`, out)
}

func TestCaseWhenTransformIsNoopWithoutCaseWhen(t *testing.T) {
	query := `SELECT * WHERE { ?s ?p ?o }`
	out, err := CaseWhenTransform(query)
	require.NoError(t, err)
	require.Equal(t, query, out)
}

func TestCaseWhenTransformRejectsUnclosed(t *testing.T) {
	query := `SELECT (CASE WHEN ?x > 0 THEN "pos" AS ?sign) WHERE { ?s ?p ?x }`
	_, err := CaseWhenTransform(query)
	require.ErrorIs(t, err, ErrUnclosedCaseWhen)
}
