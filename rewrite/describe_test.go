package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescribeOptionsTransformExtractsDepthAndSymmetric(t *testing.T) {
	query := `DESCRIBE DEPTH 2 SYMMETRIC <http://example.org/a>`
	out, opts, err := DescribeOptionsTransform(query)
	require.NoError(t, err)
	require.NotNil(t, opts.Depth)
	require.Equal(t, 2, *opts.Depth)
	require.True(t, opts.Symmetric)
	require.NotContains(t, out, "DEPTH")
	require.NotContains(t, out, "SYMMETRIC")
}

func TestDescribeOptionsTransformIsNoopForNonDescribe(t *testing.T) {
	query := `SELECT * WHERE { ?s ?p ?o }`
	out, opts, err := DescribeOptionsTransform(query)
	require.NoError(t, err)
	require.Equal(t, query, out)
	require.Nil(t, opts.Depth)
	require.False(t, opts.Symmetric)
}

func TestDescribeOptionsTransformRejectsNegativeDepth(t *testing.T) {
	_, _, err := DescribeOptionsTransform(`DESCRIBE DEPTH -1 <http://example.org/a>`)
	require.ErrorIs(t, err, ErrInvalidDescribeDepth)
}

func TestDescribeOptionsTransformIgnoresDepthInsideComment(t *testing.T) {
	query := "DESCRIBE <http://example.org/a> # DEPTH 5\n"
	out, opts, err := DescribeOptionsTransform(query)
	require.NoError(t, err)
	require.Nil(t, opts.Depth)
	require.Contains(t, out, "# DEPTH 5")
}
