package function

import (
	"strconv"
	"strings"
	"time"

	"github.com/kbvault/sparql/kerrors"
	"github.com/kbvault/sparql/term"
)

func registerDateTimeFuncs(r *Registry) {
	r.Register("NOW", fnNow)
	r.Register("YEAR", fnYear)
	r.Register("MONTH", fnMonth)
	r.Register("DAY", fnDay)
	r.Register("HOURS", fnHours)
	r.Register("MINUTES", fnMinutes)
	r.Register("SECONDS", fnSeconds)
	r.Register("TIMEZONE", fnTimezone)
	r.Register("TZ", fnTZ)
}

// asDateTime parses an xsd:dateTime literal, keeping whatever offset its
// lexical form carries (time.Parse preserves it as a fixed zone) so
// TIMEZONE/TZ can report it before any later UTC normalization.
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

func oneDateTimeArg(args []term.Term, fname string) (time.Time, error) {
	if len(args) != 1 {
		return time.Time{}, kerrors.New(kerrors.KindTypeError, fname+" takes one argument")
	}
	t, ok := asDateTime(args[0])
	if !ok {
		return time.Time{}, kerrors.New(kerrors.KindTypeError, fname+" argument must be an xsd:dateTime")
	}
	return t, nil
}

// fnNow returns the current instant as a UTC xsd:dateTime. Every call
// samples time.Now afresh, so two NOW() calls within one query can
// return different values.
func fnNow(args []term.Term) (term.Term, error) {
	if len(args) != 0 {
		return nil, kerrors.New(kerrors.KindTypeError, "NOW takes no arguments")
	}
	return term.Literal{Lexical: time.Now().UTC().Format(time.RFC3339Nano), Datatype: xsdDateTime}, nil
}

// YEAR/MONTH/DAY/HOURS/MINUTES/SECONDS all normalize to UTC before
// extracting a field, so two dateTimes denoting the same instant under
// different offsets report the same field values.

func fnYear(args []term.Term) (term.Term, error) {
	t, err := oneDateTimeArg(args, "YEAR")
	if err != nil {
		return nil, err
	}
	return term.NewTyped(strconv.Itoa(t.UTC().Year()), xsdInteger), nil
}

func fnMonth(args []term.Term) (term.Term, error) {
	t, err := oneDateTimeArg(args, "MONTH")
	if err != nil {
		return nil, err
	}
	return term.NewTyped(strconv.Itoa(int(t.UTC().Month())), xsdInteger), nil
}

func fnDay(args []term.Term) (term.Term, error) {
	t, err := oneDateTimeArg(args, "DAY")
	if err != nil {
		return nil, err
	}
	return term.NewTyped(strconv.Itoa(t.UTC().Day()), xsdInteger), nil
}

func fnHours(args []term.Term) (term.Term, error) {
	t, err := oneDateTimeArg(args, "HOURS")
	if err != nil {
		return nil, err
	}
	return term.NewTyped(strconv.Itoa(t.UTC().Hour()), xsdInteger), nil
}

func fnMinutes(args []term.Term) (term.Term, error) {
	t, err := oneDateTimeArg(args, "MINUTES")
	if err != nil {
		return nil, err
	}
	return term.NewTyped(strconv.Itoa(t.UTC().Minute()), xsdInteger), nil
}

func fnSeconds(args []term.Term) (term.Term, error) {
	t, err := oneDateTimeArg(args, "SECONDS")
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	sec := float64(t.Second()) + float64(t.Nanosecond())/1e9
	return term.NewTyped(strconv.FormatFloat(sec, 'g', -1, 64), xsdDecimal), nil
}

// fnTimezone returns the dateTime's offset as an xsd:dayTimeDuration,
// erroring if the literal carries no timezone, per fn:timezone-from-dateTime.
func fnTimezone(args []term.Term) (term.Term, error) {
	t, err := oneDateTimeArg(args, "TIMEZONE")
	if err != nil {
		return nil, err
	}
	lit := args[0].(term.Literal)
	if !hasExplicitZone(lit.Lexical) {
		return nil, kerrors.New(kerrors.KindInvalidDateTime, "dateTime has no timezone")
	}
	_, offset := t.Zone()
	return term.NewTyped(formatOffsetDuration(offset), xsdDayTimeDuration), nil
}

// fnTZ returns the dateTime's timezone as a simple string: "Z" for UTC,
// "+HH:MM"/"-HH:MM" for a fixed offset, or "" if none is present.
func fnTZ(args []term.Term) (term.Term, error) {
	t, err := oneDateTimeArg(args, "TZ")
	if err != nil {
		return nil, err
	}
	lit := args[0].(term.Literal)
	if !hasExplicitZone(lit.Lexical) {
		return term.NewString(""), nil
	}
	_, offset := t.Zone()
	if offset == 0 {
		return term.NewString("Z"), nil
	}
	return term.NewString(formatOffsetClock(offset)), nil
}

func hasExplicitZone(lexical string) bool {
	if strings.HasSuffix(lexical, "Z") {
		return true
	}
	// dateTime's date portion always has two '-' separators before any
	// time component; an offset sign appears only after that.
	if i := strings.IndexByte(lexical, 'T'); i >= 0 {
		rest := lexical[i:]
		return strings.ContainsAny(rest, "+-")
	}
	return false
}

func formatOffsetClock(offsetSeconds int) string {
	sign := "+"
	if offsetSeconds < 0 {
		sign = "-"
		offsetSeconds = -offsetSeconds
	}
	h := offsetSeconds / 3600
	m := (offsetSeconds % 3600) / 60
	return sign + pad2(h) + ":" + pad2(m)
}

func pad2(n int) string {
	s := strconv.Itoa(n)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

const xsdDayTimeDuration = "http://www.w3.org/2001/XMLSchema#dayTimeDuration"

func formatOffsetDuration(offsetSeconds int) string {
	neg := offsetSeconds < 0
	if neg {
		offsetSeconds = -offsetSeconds
	}
	h := offsetSeconds / 3600
	m := (offsetSeconds % 3600) / 60
	s := offsetSeconds % 60
	out := "PT"
	if h > 0 {
		out += strconv.Itoa(h) + "H"
	}
	if m > 0 {
		out += strconv.Itoa(m) + "M"
	}
	if s > 0 || (h == 0 && m == 0) {
		out += strconv.Itoa(s) + "S"
	}
	if neg {
		out = "-" + out
	}
	return out
}
