package rewrite

import (
	"regexp"

	"github.com/pkg/errors"
)

var tripleTermOpenRe = regexp.MustCompile(`<<\(`)

// ErrUnclosedTripleTerm is returned when a `<<( ... )>>` triple-term form
// has no matching close.
var ErrUnclosedTripleTerm = errors.New("UnclosedTripleTerm: <<( has no matching )>>")

// TripleTermTransform rewrites the SPARQL 1.2 parenthesized triple-term
// form `<<( s p o )>>` to the plain quoted-triple form `<< s p o >>`,
// which the core parser already understands. Nested triple terms are
// handled because the scan tracks paren depth from each `<<(` to its
// matching `)>>`, and a nested `<<(` simply increases depth without
// being separately matched by the outer regex pass (the loop re-scans
// from the top after every rewrite).
func TripleTermTransform(query string) (string, error) {
	for {
		regions := skipRegions(query)
		m := firstUnskipped(tripleTermOpenRe, query, regions)
		if m == nil {
			return query, nil
		}

		openParen := m[1] - 1
		closeParen := scanBalanced(query, openParen, '(', ')')
		if closeParen < 0 {
			return query, ErrUnclosedTripleTerm
		}

		rest := query[closeParen+1:]
		gtgt := indexUnescaped(rest, ">>")
		if gtgt < 0 {
			return query, ErrUnclosedTripleTerm
		}
		between := rest[:gtgt]
		if !isBlankRun(between) {
			return query, ErrUnclosedTripleTerm
		}

		inner := query[openParen+1 : closeParen]
		query = query[:m[0]] + "<<" + inner + ">>" + rest[gtgt+2:]
	}
}

func indexUnescaped(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func isBlankRun(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isSpace(s[i]) {
			return false
		}
	}
	return true
}
