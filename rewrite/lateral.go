package rewrite

import (
	"regexp"

	"github.com/pkg/errors"
)

// LateralMarkerVar is the synthetic projection variable the LATERAL
// transform inserts into the rewritten subquery's SELECT list, so the
// translator can recognize which subqueries came from a LATERAL block
// and lower them to a lateraljoin algebra node.
const LateralMarkerVar = "__LATERAL_JOIN__"

var (
	lateralRe    = regexp.MustCompile(`(?i)\bLATERAL\b`)
	selectHeadRe = regexp.MustCompile(`(?i)^(\s*SELECT\s*(?:DISTINCT|REDUCED)?\s*)`)
)

// ErrLateralNotSelect is returned when a LATERAL block's body does not
// begin with SELECT.
var ErrLateralNotSelect = errors.New("LateralNotSelect: LATERAL block must begin with SELECT")

// ErrLateralTooDeep is returned when LATERAL rewriting does not converge
// within 100 passes (runaway nesting).
var ErrLateralTooDeep = errors.New("LateralTooDeep: LATERAL nesting exceeded 100 passes")

// LateralTransform rewrites every `LATERAL { SELECT ... }` occurrence
// into a plain `{ SELECT ?__LATERAL_JOIN__ ... }` subquery block the base
// parser already understands, iterating to handle LATERAL blocks nested
// inside other LATERAL blocks.
func LateralTransform(query string) (string, error) {
	for pass := 0; pass < 100; pass++ {
		regions := skipRegions(query)
		loc := firstUnskipped(lateralRe, query, regions)
		if loc == nil {
			return query, nil
		}

		braceStart := loc[1]
		for braceStart < len(query) && isSpace(query[braceStart]) {
			braceStart++
		}
		if braceStart >= len(query) || query[braceStart] != '{' {
			return query, errors.New("LateralNotSelect: LATERAL must be followed by a block")
		}

		braceEnd := scanBalanced(query, braceStart, '{', '}')
		if braceEnd < 0 {
			return query, errors.New("LateralNotSelect: unterminated LATERAL block")
		}

		inner := query[braceStart+1 : braceEnd]
		rewritten, err := insertLateralMarker(inner)
		if err != nil {
			return query, err
		}

		query = query[:loc[0]] + "{" + rewritten + "}" + query[braceEnd+1:]
	}
	return query, ErrLateralTooDeep
}

func insertLateralMarker(inner string) (string, error) {
	loc := selectHeadRe.FindStringSubmatchIndex(inner)
	if loc == nil {
		return inner, ErrLateralNotSelect
	}
	head := inner[loc[2]:loc[3]]
	return head + "?" + LateralMarkerVar + " " + inner[loc[3]:], nil
}
