package rewrite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunAppliesAllSyncTransforms(t *testing.T) {
	query := `DESCRIBE DEPTH 1 <http://example.org/a>`
	result, err := Run(query)
	require.NoError(t, err)
	require.NotNil(t, result.Describe.Depth)
	require.Equal(t, 1, *result.Describe.Depth)
}

func TestRunRejectsPrefixStar(t *testing.T) {
	query := "PREFIX * <http://xmlns.com/foaf/0.1/>\nSELECT * WHERE { ?s ?p ?o }"
	_, err := Run(query)
	require.ErrorIs(t, err, ErrPrefixStarRequiresAsync)
}

func TestRunAsyncResolvesPrefixStarAndAppliesRest(t *testing.T) {
	query := "PREFIX * <http://xmlns.com/foaf/0.1/>\nSELECT * WHERE { ?s foaf:name \"hi\"@en--ltr }"
	result, err := RunAsync(context.Background(), query, nil)
	require.NoError(t, err)
	require.Contains(t, result.Text, "PREFIX foaf: <http://xmlns.com/foaf/0.1/>")
	require.Contains(t, result.Text, `"hi"@en`)
	require.Equal(t, "ltr", result.DirectionOfLang["en"])
}

func TestRunComposesLateralAndCaseWhen(t *testing.T) {
	query := `SELECT * WHERE { LATERAL { SELECT (CASE WHEN ?x > 0 THEN "p" ELSE "n" END AS ?sign) WHERE { ?s ?p ?x } } }`
	result, err := Run(query)
	require.NoError(t, err)
	require.NotContains(t, result.Text, "LATERAL")
	require.NotContains(t, result.Text, "CASE")
	require.Contains(t, result.Text, "IF(?x > 0, \"p\", \"n\")")
	require.Contains(t, result.Text, "?"+LateralMarkerVar)
}
