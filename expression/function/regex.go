package function

import (
	"regexp"

	"github.com/kbvault/sparql/kerrors"
)

// compileRegex translates SPARQL's REGEX/REPLACE flags (i, s, m, x) into
// Go's RE2 inline flag syntax. x (extended, whitespace-insignificant) has
// no RE2 equivalent and is rejected rather than silently ignored.
func compileRegex(pattern, flags string) (*regexp.Regexp, error) {
	var goFlags string
	for _, f := range flags {
		switch f {
		case 'i':
			goFlags += "i"
		case 's':
			goFlags += "s"
		case 'm':
			goFlags += "m"
		case 'x':
			return nil, kerrors.New(kerrors.KindUnsupportedFeature, "REGEX flag 'x' is not supported")
		default:
			return nil, kerrors.New(kerrors.KindBadRegex, "unknown REGEX flag "+string(f))
		}
	}
	if goFlags != "" {
		pattern = "(?" + goFlags + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.KindBadRegex, err, "invalid regular expression")
	}
	return re, nil
}
