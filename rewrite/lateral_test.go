package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLateralTransformInsertsMarkerVariable(t *testing.T) {
	query := `SELECT * WHERE { ?s a ?type . LATERAL { SELECT ?o WHERE { ?s ?p ?o } LIMIT 1 } }`
	out, err := LateralTransform(query)
	require.NoError(t, err)
	require.NotContains(t, out, "LATERAL")
	require.Contains(t, out, "?"+LateralMarkerVar)
	require.Contains(t, out, "SELECT ?"+LateralMarkerVar+" ?o WHERE")
}

func TestLateralTransformPreservesDistinct(t *testing.T) {
	query := `SELECT * WHERE { LATERAL { SELECT DISTINCT ?o WHERE { ?s ?p ?o } } }`
	out, err := LateralTransform(query)
	require.NoError(t, err)
	require.Contains(t, out, "SELECT DISTINCT ?"+LateralMarkerVar+" ?o WHERE")
}

func TestLateralTransformRejectsNonSelectBody(t *testing.T) {
	query := `SELECT * WHERE { LATERAL { ?s ?p ?o } }`
	_, err := LateralTransform(query)
	require.ErrorIs(t, err, ErrLateralNotSelect)
}

func TestLateralTransformIsNoopWithoutLateral(t *testing.T) {
	query := `SELECT * WHERE { ?s ?p ?o }`
	out, err := LateralTransform(query)
	require.NoError(t, err)
	require.Equal(t, query, out)
}

func TestLateralTransformHandlesNestedLateral(t *testing.T) {
	query := `SELECT * WHERE { LATERAL { SELECT ?o WHERE { LATERAL { SELECT ?p WHERE { ?s ?p ?o } } } } }`
	out, err := LateralTransform(query)
	require.NoError(t, err)
	require.NotContains(t, out, "LATERAL")
}
