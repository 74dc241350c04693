package rewrite

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	caseRe = regexp.MustCompile(`(?i)\bCASE\s+WHEN\b`)
	whenRe = regexp.MustCompile(`(?i)\bWHEN\b`)
	thenRe = regexp.MustCompile(`(?i)\bTHEN\b`)
	elseRe = regexp.MustCompile(`(?i)\bELSE\b`)
	endRe  = regexp.MustCompile(`(?i)\bEND\b`)
	caseOpenRe = regexp.MustCompile(`(?i)\bCASE\b`)
)

// ErrUnclosedCaseWhen is returned when a CASE WHEN has no matching END.
var ErrUnclosedCaseWhen = errors.New("UnclosedCaseWhen: CASE WHEN has no matching END")

// CaseWhenTransform rewrites `CASE WHEN c1 THEN e1 WHEN c2 THEN e2 ...
// ELSE en END` into a right-associated nested IF(c1, e1, IF(c2, e2, ...,
// en)) expression, since the core parser's builtin-function grammar
// already knows IF but not CASE WHEN. Each pass rewrites the leftmost
// CASE WHEN using keyword-depth tracking to find its true matching END,
// so a CASE nested inside a WHEN/THEN/ELSE clause survives untouched
// inside the produced IF(...) text and is rewritten on a later pass.
func CaseWhenTransform(query string) (string, error) {
	for {
		regions := skipRegions(query)
		m := firstUnskipped(caseRe, query, regions)
		if m == nil {
			return query, nil
		}

		bodyStart := m[1]
		end := matchingEnd(query, bodyStart)
		if end < 0 {
			return query, ErrUnclosedCaseWhen
		}

		body := query[bodyStart:end]
		expr, err := buildNestedIf(body)
		if err != nil {
			return query, err
		}

		endMatch := endRe.FindStringIndex(query[end:])
		endClose := end + endMatch[1]
		query = query[:m[0]] + expr + query[endClose:]
	}
}

// matchingEnd finds the END keyword matching the CASE whose WHEN clause
// body starts at start, accounting for any CASE...END nested inside the
// body by tracking keyword depth.
func matchingEnd(s string, start int) int {
	depth := 1
	i := start
	for i < len(s) {
		suffix := s[i:]
		regions := skipRegions(suffix)

		ciLoc := firstUnskipped(caseOpenRe, suffix, regions)
		eiLoc := firstUnskipped(endRe, suffix, regions)
		if eiLoc == nil {
			return -1
		}

		if ciLoc != nil && ciLoc[0] < eiLoc[0] {
			depth++
			i += ciLoc[1]
			continue
		}
		depth--
		if depth == 0 {
			return i + eiLoc[0]
		}
		i += eiLoc[1]
	}
	return -1
}

// buildNestedIf parses a WHEN c1 THEN e1 [WHEN c2 THEN e2 ...] [ELSE en]
// body (without the leading CASE WHEN or trailing END) into a
// right-associated nested IF(...) expression string.
func buildNestedIf(body string) (string, error) {
	type clause struct {
		cond, result string
	}
	var clauses []clause
	var elseExpr string
	hasElse := false

	rest := body
	for {
		thenLoc := firstUnskipped(thenRe, rest, skipRegions(rest))
		if thenLoc == nil {
			return "", errors.New("UnclosedCaseWhen: WHEN without THEN")
		}
		cond := strings.TrimSpace(rest[:thenLoc[0]])
		afterThen := rest[thenLoc[1]:]

		regions := skipRegions(afterThen)
		nextWhen := firstUnskipped(whenRe, afterThen, regions)
		nextElse := firstUnskipped(elseRe, afterThen, regions)

		var boundary int
		var stop bool
		switch {
		case nextWhen != nil && (nextElse == nil || nextWhen[0] < nextElse[0]):
			boundary = nextWhen[0]
		case nextElse != nil:
			boundary = nextElse[0]
			stop = true
		default:
			boundary = len(afterThen)
			stop = true
		}

		result := strings.TrimSpace(afterThen[:boundary])
		clauses = append(clauses, clause{cond, result})

		if !stop {
			rest = afterThen[nextWhen[1]:]
			continue
		}

		if nextElse != nil {
			elseExpr = strings.TrimSpace(afterThen[nextElse[1]:])
			hasElse = true
		}
		break
	}

	if len(clauses) == 0 {
		return "", errors.New("UnclosedCaseWhen: CASE WHEN has no WHEN clause")
	}

	tail := "?__CASE_UNBOUND__"
	if hasElse {
		tail = elseExpr
	}
	expr := tail
	for i := len(clauses) - 1; i >= 0; i-- {
		c := clauses[i]
		expr = "IF(" + c.cond + ", " + c.result + ", " + expr + ")"
	}
	return expr, nil
}
