package expression

import (
	"strconv"
	"time"

	"github.com/kbvault/sparql/kerrors"
	"github.com/kbvault/sparql/term"
)

// numericValue is a literal's numeric value plus the widest xsd numeric
// type it or its operand partner should promote to, per the xsd numeric
// hierarchy (integer < decimal < float < double, simplified here to
// integer vs. non-integer since the evaluator stores everything as
// float64).
type numericValue struct {
	f         float64
	isInteger bool
}

func asNumeric(t term.Term) (numericValue, bool) {
	lit, ok := t.(term.Literal)
	if !ok {
		return numericValue{}, false
	}
	switch lit.EffectiveDatatype() {
	case xsdInteger:
		f, err := strconv.ParseFloat(lit.Lexical, 64)
		if err != nil {
			return numericValue{}, false
		}
		return numericValue{f: f, isInteger: true}, true
	case xsdDecimal, xsdDouble:
		f, err := strconv.ParseFloat(lit.Lexical, 64)
		if err != nil {
			return numericValue{}, false
		}
		return numericValue{f: f}, true
	default:
		return numericValue{}, false
	}
}

func numericTerm(v numericValue) term.Term {
	if v.isInteger {
		return term.Literal{Lexical: strconv.FormatInt(int64(v.f), 10), Datatype: xsdInteger}
	}
	return term.Literal{Lexical: strconv.FormatFloat(v.f, 'g', -1, 64), Datatype: xsdDecimal}
}

// asDateTime parses an xsd:dateTime literal using RFC3339, the profile
// the lexical space of xsd:dateTime is a superset of for the purposes
// this evaluator needs (offset and 'Z' zones only).
func asDateTime(t term.Term) (time.Time, bool) {
	lit, ok := t.(term.Literal)
	if !ok || lit.EffectiveDatatype() != xsdDateTime {
		return time.Time{}, false
	}
	tm, err := time.Parse(time.RFC3339Nano, lit.Lexical)
	if err != nil {
		return time.Time{}, false
	}
	return tm, true
}

func dateTimeTerm(t time.Time) term.Term {
	return term.Literal{Lexical: t.UTC().Format(time.RFC3339Nano), Datatype: xsdDateTime}
}

// asDuration parses an xsd:dayTimeDuration literal of the form
// "PnDTnHnMnS" into a time.Duration; this evaluator only supports the
// day-time subset (no year/month components), matching dateTime
// subtraction's result type.
func asDuration(t term.Term) (time.Duration, bool) {
	lit, ok := t.(term.Literal)
	if !ok {
		return 0, false
	}
	switch lit.EffectiveDatatype() {
	case xsdDuration, xsdDayTimeDuration:
	default:
		return 0, false
	}
	d, err := parseDayTimeDuration(lit.Lexical)
	if err != nil {
		return 0, false
	}
	return d, true
}

func durationTerm(d time.Duration) term.Term {
	return term.Literal{Lexical: formatDayTimeDuration(d), Datatype: xsdDayTimeDuration}
}

// parseDayTimeDuration parses the xsd:dayTimeDuration lexical form
// "[-]P[nD][T[nH][nM][nS]]".
func parseDayTimeDuration(s string) (time.Duration, error) {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) == 0 || s[0] != 'P' {
		return 0, kerrors.New(kerrors.KindInvalidDateTime, "malformed duration "+s)
	}
	s = s[1:]

	var days, hours, minutes int
	var seconds float64

	datePart, timePart := s, ""
	if i := indexByte(s, 'T'); i >= 0 {
		datePart, timePart = s[:i], s[i+1:]
	}

	if datePart != "" {
		n, unit, rest, err := scanDurationField(datePart)
		if err != nil {
			return 0, err
		}
		if unit != 'D' || rest != "" {
			return 0, kerrors.New(kerrors.KindInvalidDateTime, "malformed duration "+s)
		}
		days = int(n)
	}

	for timePart != "" {
		n, unit, rest, err := scanDurationField(timePart)
		if err != nil {
			return 0, err
		}
		switch unit {
		case 'H':
			hours = int(n)
		case 'M':
			minutes = int(n)
		case 'S':
			seconds = n
		default:
			return 0, kerrors.New(kerrors.KindInvalidDateTime, "malformed duration "+s)
		}
		timePart = rest
	}

	total := time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second))
	if neg {
		total = -total
	}
	return total, nil
}

func scanDurationField(s string) (value float64, unit byte, rest string, err error) {
	i := 0
	for i < len(s) && (s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 || i >= len(s) {
		return 0, 0, "", kerrors.New(kerrors.KindInvalidDateTime, "malformed duration field "+s)
	}
	n, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, 0, "", kerrors.Wrap(kerrors.KindInvalidDateTime, err, "malformed duration field")
	}
	return n, s[i], s[i+1:], nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func formatDayTimeDuration(d time.Duration) string {
	neg := d < 0
	if neg {
		d = -d
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d.Seconds()

	out := "P"
	if days > 0 {
		out += strconv.FormatInt(int64(days), 10) + "D"
	}
	out += "T"
	if hours > 0 {
		out += strconv.FormatInt(int64(hours), 10) + "H"
	}
	if minutes > 0 {
		out += strconv.FormatInt(int64(minutes), 10) + "M"
	}
	out += strconv.FormatFloat(seconds, 'g', -1, 64) + "S"
	if neg {
		out = "-" + out
	}
	return out
}
