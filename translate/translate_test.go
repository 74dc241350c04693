package translate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/langparse"
)

func mustTranslate(t *testing.T, query string) algebra.Op {
	t.Helper()
	q, err := langparse.Parse(query)
	require.NoError(t, err)
	op, err := Translate(q)
	require.NoError(t, err)
	return op
}

func TestTranslateSimpleSelect(t *testing.T) {
	op := mustTranslate(t, `SELECT ?s ?o WHERE { ?s <http://ex/p> ?o }`)
	proj, ok := op.(algebra.Project)
	require.True(t, ok)
	require.Equal(t, []string{"s", "o"}, proj.Vars)
	bgp, ok := proj.Input.(algebra.BGP)
	require.True(t, ok)
	require.Len(t, bgp.Patterns, 1)
	require.True(t, bgp.Patterns[0].Subject.IsVar())
	require.Equal(t, "s", bgp.Patterns[0].Subject.Var)
}

func TestTranslateOptional(t *testing.T) {
	op := mustTranslate(t, `SELECT * WHERE { ?s <http://ex/p> ?o OPTIONAL { ?s <http://ex/q> ?v } }`)
	lj, ok := op.(algebra.LeftJoin)
	require.True(t, ok)
	_, ok = lj.Left.(algebra.BGP)
	require.True(t, ok)
	_, ok = lj.Right.(algebra.BGP)
	require.True(t, ok)
}

func TestTranslateUnionMinus(t *testing.T) {
	op := mustTranslate(t, `SELECT * WHERE { { ?s a <http://ex/A> } UNION { ?s a <http://ex/B> } MINUS { ?s <http://ex/bad> ?x } }`)
	minus, ok := op.(algebra.Minus)
	require.True(t, ok)
	_, ok = minus.Left.(algebra.Union)
	require.True(t, ok)
}

func TestTranslateFilterHoistsToEnclosingGroup(t *testing.T) {
	op := mustTranslate(t, `SELECT * WHERE { ?s <http://ex/p> ?o FILTER(?o > 1) }`)
	f, ok := op.(algebra.Filter)
	require.True(t, ok)
	_, ok = f.Input.(algebra.BGP)
	require.True(t, ok)
}

func TestTranslateDistinctOrderLimitOffset(t *testing.T) {
	op := mustTranslate(t, `SELECT DISTINCT ?s WHERE { ?s <http://ex/p> ?o } ORDER BY ?s LIMIT 5 OFFSET 2`)
	slice, ok := op.(algebra.Slice)
	require.True(t, ok)
	require.Equal(t, 2, slice.Offset)
	require.Equal(t, 5, slice.Limit)
	dist, ok := slice.Input.(algebra.Distinct)
	require.True(t, ok)
	proj, ok := dist.Input.(algebra.Project)
	require.True(t, ok)
	_, ok = proj.Input.(algebra.OrderBy)
	require.True(t, ok)
}

func TestTranslateGroupByAggregate(t *testing.T) {
	op := mustTranslate(t, `SELECT ?s (COUNT(?o) AS ?n) WHERE { ?s <http://ex/p> ?o } GROUP BY ?s`)
	proj, ok := op.(algebra.Project)
	require.True(t, ok)
	require.Equal(t, []string{"s", "n"}, proj.Vars)
	extend, ok := proj.Input.(algebra.Extend)
	require.True(t, ok)
	require.Equal(t, "n", extend.Var)
	group, ok := extend.Input.(algebra.Group)
	require.True(t, ok)
	require.Len(t, group.Aggregates, 1)
	call, ok := group.Aggregates[0].Call.(algebra.CallExpr)
	require.True(t, ok)
	require.Equal(t, "COUNT", call.Name)
}

func TestTranslateValues(t *testing.T) {
	op := mustTranslate(t, `SELECT * WHERE { VALUES (?x ?y) { (1 UNDEF) } }`)
	values, ok := op.(algebra.Values)
	require.True(t, ok)
	require.Equal(t, []string{"x", "y"}, values.Vars)
	require.Len(t, values.Bindings, 1)
	require.NotNil(t, values.Bindings[0][0])
	require.Nil(t, values.Bindings[0][1])
}

func TestTranslateAsk(t *testing.T) {
	op := mustTranslate(t, `ASK { ?s <http://ex/p> ?o }`)
	ask, ok := op.(algebra.Ask)
	require.True(t, ok)
	_, ok = ask.Where.(algebra.BGP)
	require.True(t, ok)
}

func TestTranslateDescribeStar(t *testing.T) {
	op := mustTranslate(t, `DESCRIBE * WHERE { ?s <http://ex/p> ?o }`)
	desc, ok := op.(algebra.Describe)
	require.True(t, ok)
	require.Empty(t, desc.Seeds)
	require.NotNil(t, desc.Where)
}

func TestTranslateLateralSubquery(t *testing.T) {
	op := mustTranslate(t, `SELECT * WHERE {
		?s a <http://ex/Person> .
		{
			SELECT ?__LATERAL_JOIN__ ?s ?friend WHERE { ?s <http://ex/knows> ?friend } ORDER BY ?friend LIMIT 1
		}
	}`)
	lj, ok := op.(algebra.LateralJoin)
	require.True(t, ok)
	_, ok = lj.Left.(algebra.BGP)
	require.True(t, ok)
	_, ok = lj.Right.(algebra.Slice)
	require.True(t, ok)
}
