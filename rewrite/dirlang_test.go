package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectionalLanguageTransformStripsDirectionSuffix(t *testing.T) {
	query := `SELECT * WHERE { ?s ?p "مرحبا"@ar--rtl }`
	out, dirs := DirectionalLanguageTransform(query)
	require.Equal(t, `SELECT * WHERE { ?s ?p "مرحبا"@ar }`, out)
	require.Equal(t, "rtl", dirs["ar"])
}

func TestDirectionalLanguageTransformHandlesMultipleLiterals(t *testing.T) {
	query := `SELECT * WHERE { ?s ?p "hello"@en--ltr . ?s ?q "مرحبا"@ar--rtl }`
	out, dirs := DirectionalLanguageTransform(query)
	require.Equal(t, `SELECT * WHERE { ?s ?p "hello"@en . ?s ?q "مرحبا"@ar }`, out)
	require.Equal(t, "ltr", dirs["en"])
	require.Equal(t, "rtl", dirs["ar"])
}

func TestDirectionalLanguageTransformIsNoopWithoutDirectionTags(t *testing.T) {
	query := `SELECT * WHERE { ?s ?p "hello"@en }`
	out, dirs := DirectionalLanguageTransform(query)
	require.Equal(t, query, out)
	require.Empty(t, dirs)
}

func TestDirectionalLanguageTransformIgnoresCommentedExample(t *testing.T) {
	query := "SELECT * WHERE { ?s ?p \"hello\"@en--ltr } # \"x\"@en--rtl\n"
	out, dirs := DirectionalLanguageTransform(query)
	require.Contains(t, out, `"hello"@en`)
	require.Contains(t, out, `# "x"@en--rtl`)
	require.Equal(t, "ltr", dirs["en"])
	require.Len(t, dirs, 1)
}
