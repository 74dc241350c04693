package term

import "testing"

import "github.com/stretchr/testify/require"

func TestLiteralEqualityIncludesDirection(t *testing.T) {
	ar := NewLangString("مرحبا", "ar", DirectionRTL)
	arSame := NewLangString("مرحبا", "ar", DirectionRTL)
	arLTR := NewLangString("مرحبا", "ar", DirectionLTR)
	arNone := NewLangString("مرحبا", "ar", DirectionNone)

	require.True(t, ar.Equals(arSame))
	require.False(t, ar.Equals(arLTR))
	require.False(t, ar.Equals(arNone))
}

func TestQuotedTripleStructuralEquality(t *testing.T) {
	a := QuotedTriple{Subject: IRI{"urn:s"}, Predicate: IRI{"urn:p"}, Object: NewString("o")}
	b := QuotedTriple{Subject: IRI{"urn:s"}, Predicate: IRI{"urn:p"}, Object: NewString("o")}
	c := QuotedTriple{Subject: IRI{"urn:s"}, Predicate: IRI{"urn:p"}, Object: NewString("other")}

	require.True(t, a.Equals(b))
	require.False(t, a.Equals(c))
}

func TestCompareOrdering(t *testing.T) {
	blank := Blank{ID: "x"}
	iri := IRI{Value: "urn:a"}
	lit := NewString("a")

	require.Negative(t, Compare(blank, iri))
	require.Negative(t, Compare(iri, lit))
	require.Zero(t, Compare(iri, IRI{Value: "urn:a"}))
}

func TestCompareNumericByValue(t *testing.T) {
	ten := NewTyped("10", "http://www.w3.org/2001/XMLSchema#integer")
	nine := NewTyped("9", "http://www.w3.org/2001/XMLSchema#integer")

	// lexically "10" < "9" but numerically 10 > 9
	require.Positive(t, Compare(ten, nine))
}
