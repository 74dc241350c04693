package rewrite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrefixStarTransformResolvesWellKnownVocabulary(t *testing.T) {
	query := "PREFIX * <http://xmlns.com/foaf/0.1/>\nSELECT * WHERE { ?s foaf:name ?n }"
	out, err := PrefixStarTransform(context.Background(), query, nil)
	require.NoError(t, err)
	require.Contains(t, out, "PREFIX foaf: <http://xmlns.com/foaf/0.1/>")
	require.NotContains(t, out, "PREFIX *")
}

func TestPrefixStarTransformFallsBackToDerivedPrefix(t *testing.T) {
	query := "PREFIX * <http://example.com/ontology/widgets#>\nSELECT * WHERE { ?s ?p ?o }"
	out, err := PrefixStarTransform(context.Background(), query, nil)
	require.NoError(t, err)
	require.Contains(t, out, "PREFIX widgets: <http://example.com/ontology/widgets#>")
}

func TestPrefixStarTransformUsesResolver(t *testing.T) {
	query := "PREFIX * <http://example.com/custom#>\nSELECT * WHERE { ?s ?p ?o }"
	out, err := PrefixStarTransform(context.Background(), query, resolverFunc(func(ctx context.Context, uri string) (map[string]string, error) {
		return map[string]string{"custom": uri}, nil
	}))
	require.NoError(t, err)
	require.Contains(t, out, "PREFIX custom: <http://example.com/custom#>")
}

func TestRequireSyncRejectsPrefixStar(t *testing.T) {
	err := RequireSync("PREFIX * <http://xmlns.com/foaf/0.1/>\nSELECT * WHERE { ?s ?p ?o }")
	require.ErrorIs(t, err, ErrPrefixStarRequiresAsync)
}

func TestRequireSyncAllowsOrdinaryPrefix(t *testing.T) {
	err := RequireSync("PREFIX foaf: <http://xmlns.com/foaf/0.1/>\nSELECT * WHERE { ?s ?p ?o }")
	require.NoError(t, err)
}

type resolverFunc func(ctx context.Context, uri string) (map[string]string, error)

func (f resolverFunc) Resolve(ctx context.Context, uri string) (map[string]string, error) {
	return f(ctx, uri)
}
