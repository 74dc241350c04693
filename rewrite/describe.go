package rewrite

import (
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// DescribeOptions is the side channel extracted from a DESCRIBE query's
// DEPTH/SYMMETRIC options, attached to the eventual DESCRIBE algebra node.
type DescribeOptions struct {
	Depth     *int // nil means unset: one hop, both directions
	Symmetric bool
}

var (
	depthRe     = regexp.MustCompile(`(?i)\bDEPTH\s+(-?\d+)\b`)
	symmetricRe = regexp.MustCompile(`(?i)\bSYMMETRIC\b`)
)

// ErrInvalidDescribeDepth is returned when DEPTH is followed by a
// negative integer.
var ErrInvalidDescribeDepth = errors.New("InvalidDescribeDepth: DEPTH must be a non-negative integer")

// DescribeOptionsTransform strips DEPTH n and SYMMETRIC from a DESCRIBE
// query and returns the cleaned text plus the extracted options. It is a
// no-op (returns zero DescribeOptions) on queries that are not DESCRIBE.
func DescribeOptionsTransform(query string) (string, DescribeOptions, error) {
	if !isDescribeQuery(query) {
		return query, DescribeOptions{}, nil
	}

	regions := skipRegions(query)
	var opts DescribeOptions

	if m := firstUnskipped(depthRe, query, regions); m != nil {
		n, err := strconv.Atoi(query[m[2]:m[3]])
		if err != nil {
			return query, opts, errors.Wrap(err, "InvalidDescribeDepth")
		}
		if n < 0 {
			return query, opts, ErrInvalidDescribeDepth
		}
		opts.Depth = &n
		query = spliceOut(query, m[0], m[1])
		regions = skipRegions(query)
	}

	if m := firstUnskipped(symmetricRe, query, regions); m != nil {
		opts.Symmetric = true
		query = spliceOut(query, m[0], m[1])
	}

	return query, opts, nil
}

// firstUnskipped returns the first regex match (as a FindSubmatchIndex
// slice) whose start falls outside every skip region, or nil.
func firstUnskipped(re *regexp.Regexp, s string, regions []skipRegion) []int {
	for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
		if !inSkipRegion(regions, m[0]) {
			return m
		}
	}
	return nil
}

// spliceOut replaces s[start:end] with a single space, so token
// boundaries survive; the whitespace around it is kept as it was.
func spliceOut(s string, start, end int) string {
	return s[:start] + " " + s[end:]
}
