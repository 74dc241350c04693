package rewrite

import "regexp"

// directionalLiteralRe matches a quoted literal immediately followed by a
// language tag with a base-direction suffix: "..."@lang--ltr or
// '...'@lang--rtl. The literal body itself is matched non-greedily and
// does not need to understand escapes, since skipRegions already tells
// callers which byte ranges belong to the literal; this regex only needs
// to find the boundary between the closing quote and the tag.
var directionalLiteralRe = regexp.MustCompile(`(["'])((?:\\.|[^\\])*?)(["'])@([a-zA-Z]+(?:-[a-zA-Z0-9]+)*)--(ltr|rtl)\b`)

// DirectionalLanguageTransform rewrites every "...”@lang--ltr|rtl
// occurrence to plain "...”@lang, and returns a lang -> direction map so
// the translator can restore the base direction on the resulting
// literal. Keys are the exact language tag text as written (matching is
// case-sensitive per how the query spelled the tag).
func DirectionalLanguageTransform(query string) (string, map[string]string) {
	directions := make(map[string]string)

	for {
		regions := skipRegions(query)
		m := firstUnskippedDirectional(query, regions)
		if m == nil {
			break
		}
		lang := query[m[8]:m[9]]
		dir := query[m[10]:m[11]]
		directions[lang] = dir

		replacement := query[m[2]:m[3]] + query[m[4]:m[5]] + query[m[6]:m[7]] + "@" + lang
		query = query[:m[0]] + replacement + query[m[1]:]
	}

	return query, directions
}

// commentRegions returns only the `#` comment regions among s's skip
// regions.
func commentRegions(s string) []skipRegion {
	all := skipRegions(s)
	out := all[:0:0]
	for _, r := range all {
		if r.Start < len(s) && s[r.Start] == '#' {
			out = append(out, r)
		}
	}
	return out
}

// firstUnskippedDirectional finds the first directional-literal match
// that spans exactly one string-literal skip region: it starts at the
// region's opening quote and its closing quote ends the region, so a
// match never starts inside a comment and never runs on from one
// literal into a later literal or a comment.
func firstUnskippedDirectional(s string, regions []skipRegion) []int {
	for _, r := range regions {
		if s[r.Start] == '#' {
			continue
		}
		m := directionalLiteralRe.FindStringSubmatchIndex(s[r.Start:])
		if m == nil || m[0] != 0 || m[7] != r.End-r.Start {
			continue
		}
		for i := range m {
			m[i] += r.Start
		}
		return m
	}
	return nil
}
