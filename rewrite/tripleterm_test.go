package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTripleTermTransformRewritesParenthesizedForm(t *testing.T) {
	query := `SELECT * WHERE { <<( ?s ?p ?o )>> ?g ?h }`
	out, err := TripleTermTransform(query)
	require.NoError(t, err)
	require.Equal(t, `SELECT * WHERE { << ?s ?p ?o >> ?g ?h }`, out)
}

func TestTripleTermTransformIsNoopWithoutParenthesizedForm(t *testing.T) {
	query := `SELECT * WHERE { << ?s ?p ?o >> ?g ?h }`
	out, err := TripleTermTransform(query)
	require.NoError(t, err)
	require.Equal(t, query, out)
}

func TestTripleTermTransformHandlesNested(t *testing.T) {
	query := `SELECT * WHERE { <<( ?s ?p <<( ?s2 ?p2 ?o2 )>> )>> ?g ?h }`
	out, err := TripleTermTransform(query)
	require.NoError(t, err)
	require.Equal(t, `SELECT * WHERE { << ?s ?p << ?s2 ?p2 ?o2 >> >> ?g ?h }`, out)
}

func TestTripleTermTransformRejectsUnclosedForm(t *testing.T) {
	query := `SELECT * WHERE { <<( ?s ?p ?o }`
	_, err := TripleTermTransform(query)
	require.ErrorIs(t, err, ErrUnclosedTripleTerm)
}
