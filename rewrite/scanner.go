// Package rewrite implements the pre-parse transformers that lift SPARQL
// 1.2 extensions into syntax the core parser already accepts: DESCRIBE
// options, directional language tags, PREFIX*, LATERAL, the
// triple-term parenthesized form, and CASE WHEN. Each transformer is a
// pure string-to-string rewrite plus, optionally, an extracted side
// channel, and all of them obey one rule: never rewrite inside a string
// literal or a single-line comment.
package rewrite

// skipRegion marks a half-open byte range [Start, End) of the query text
// that a transform must never rewrite.
type skipRegion struct {
	Start, End int
}

// skipRegions scans s for every string-literal and line-comment range,
// recognizing '...', "...", '''...''', """...""" (with backslash
// escaping) and #...\n. Transformers use it to skip any regex match
// whose start index falls inside a returned region.
func skipRegions(s string) []skipRegion {
	var regions []skipRegion
	i, n := 0, len(s)
	for i < n {
		c := s[i]
		switch {
		case c == '#':
			start := i
			for i < n && s[i] != '\n' {
				i++
			}
			regions = append(regions, skipRegion{start, i})
		case c == '\'' || c == '"':
			start := i
			quote := c
			triple := i+2 < n && s[i+1] == quote && s[i+2] == quote
			if triple {
				i += 3
			} else {
				i++
			}
			for i < n {
				if s[i] == '\\' && i+1 < n {
					i += 2
					continue
				}
				if triple {
					if i+2 < n && s[i] == quote && s[i+1] == quote && s[i+2] == quote {
						i += 3
						break
					}
					i++
				} else {
					if s[i] == quote {
						i++
						break
					}
					if s[i] == '\n' {
						break
					}
					i++
				}
			}
			regions = append(regions, skipRegion{start, i})
		default:
			i++
		}
	}
	return regions
}

// scanBalanced finds the index of the close rune matching the open rune
// at s[start], tracking nested occurrences of the same pair and skipping
// over string-literal and comment content so braces inside a literal
// value never confuse the depth count. Returns -1 if unbalanced.
func scanBalanced(s string, start int, open, close byte) int {
	depth := 0
	i := start
	n := len(s)
	for i < n {
		c := s[i]
		switch {
		case c == '#':
			for i < n && s[i] != '\n' {
				i++
			}
		case c == '\'' || c == '"':
			regions := skipRegions(s[i:])
			if len(regions) > 0 && regions[0].Start == 0 {
				i += regions[0].End
			} else {
				i++
			}
		case c == open:
			depth++
			i++
		case c == close:
			depth--
			if depth == 0 {
				return i
			}
			i++
		default:
			i++
		}
	}
	return -1
}

func inSkipRegion(regions []skipRegion, idx int) bool {
	for _, r := range regions {
		if idx >= r.Start && idx < r.End {
			return true
		}
	}
	return false
}

// isDescribeQuery reports whether the query's leading keyword (after
// skipping PREFIX/BASE preamble lines) is DESCRIBE, case-insensitively.
func isDescribeQuery(q string) bool {
	trimmed := leadingKeyword(q)
	return equalFold(trimmed, "DESCRIBE")
}

func leadingKeyword(q string) string {
	i := 0
	n := len(q)
	for {
		for i < n && isSpace(q[i]) {
			i++
		}
		if i < n && q[i] == '#' {
			for i < n && q[i] != '\n' {
				i++
			}
			continue
		}
		rest := q[i:]
		if hasFoldPrefix(rest, "PREFIX") || hasFoldPrefix(rest, "BASE") {
			// skip to end of this declaration (next '>' closes the IRI)
			j := i
			for j < n && q[j] != '>' {
				j++
			}
			if j < n {
				j++
			}
			i = j
			continue
		}
		break
	}
	start := i
	for i < n && isWordChar(q[i]) {
		i++
	}
	return q[start:i]
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func hasFoldPrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return equalFold(s[:len(prefix)], prefix)
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'a' && ca <= 'z' {
			ca -= 'a' - 'A'
		}
		if cb >= 'a' && cb <= 'z' {
			cb -= 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
