package function

import (
	"strconv"
	"strings"

	"github.com/kbvault/sparql/kerrors"
	"github.com/kbvault/sparql/term"
)

func registerStringFuncs(r *Registry) {
	r.Register("STR", fnStr)
	r.Register("STRLEN", fnStrlen)
	r.Register("SUBSTR", fnSubstr)
	r.Register("UCASE", fnUcase)
	r.Register("LCASE", fnLcase)
	r.Register("STRSTARTS", fnStrstarts)
	r.Register("STRENDS", fnStrends)
	r.Register("CONTAINS", fnContains)
	r.Register("STRBEFORE", fnStrbefore)
	r.Register("STRAFTER", fnStrafter)
	r.Register("ENCODE_FOR_URI", fnEncodeForURI)
	r.Register("CONCAT", fnConcat)
	r.Register("REPLACE", fnReplace)
	r.Register("REGEX", fnRegex)
	r.Register("LANG", fnLang)
	r.Register("LANGMATCHES", fnLangMatches)
}

// lexicalOf extracts the lexical form of an IRI or Literal, the argument
// shape STR and the string functions accept per the spec's "argument
// compatibility" rules.
func lexicalOf(t term.Term) (string, bool) {
	switch v := t.(type) {
	case term.IRI:
		return v.Value, true
	case term.Literal:
		return v.Lexical, true
	default:
		return "", false
	}
}

func stringArg(args []term.Term, i int) (string, error) {
	if i >= len(args) {
		return "", kerrors.New(kerrors.KindTypeError, "missing argument")
	}
	lit, ok := args[i].(term.Literal)
	if !ok {
		return "", kerrors.New(kerrors.KindTypeError, "argument is not a literal")
	}
	return lit.Lexical, nil
}

// preserveLangOrDatatype builds the result of a string function that the
// spec says should carry over its first argument's language tag or
// simple-literal-ness when the computed value's source text is a
// sub-string or transform of the original.
func preserveLangOrDatatype(original term.Literal, result string) term.Term {
	if original.Language != "" {
		return term.Literal{Lexical: result, Language: original.Language, Direction: original.Direction}
	}
	if original.Datatype != "" && original.Datatype != term.XSDString {
		return term.Literal{Lexical: result, Datatype: original.Datatype}
	}
	return term.NewString(result)
}

func fnStr(args []term.Term) (term.Term, error) {
	if len(args) != 1 {
		return nil, kerrors.New(kerrors.KindTypeError, "STR takes one argument")
	}
	s, ok := lexicalOf(args[0])
	if !ok {
		return nil, kerrors.New(kerrors.KindTypeError, "STR argument must be an IRI or literal")
	}
	return term.NewString(s), nil
}

func fnStrlen(args []term.Term) (term.Term, error) {
	if len(args) != 1 {
		return nil, kerrors.New(kerrors.KindTypeError, "STRLEN takes one argument")
	}
	s, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	return term.NewTyped(strconv.Itoa(len([]rune(s))), xsdInteger), nil
}

func fnSubstr(args []term.Term) (term.Term, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, kerrors.New(kerrors.KindTypeError, "SUBSTR takes two or three arguments")
	}
	lit, ok := args[0].(term.Literal)
	if !ok {
		return nil, kerrors.New(kerrors.KindTypeError, "SUBSTR first argument must be a literal")
	}
	runes := []rune(lit.Lexical)
	start, err := numericArg(args, 1)
	if err != nil {
		return nil, err
	}
	// SPARQL STR positions are 1-based.
	from := int(start) - 1
	length := len(runes) - from
	if len(args) == 3 {
		l, err := numericArg(args, 2)
		if err != nil {
			return nil, err
		}
		length = int(l)
	}
	if from < 0 {
		length += from
		from = 0
	}
	if from >= len(runes) || length <= 0 {
		return preserveLangOrDatatype(lit, ""), nil
	}
	if from+length > len(runes) {
		length = len(runes) - from
	}
	return preserveLangOrDatatype(lit, string(runes[from:from+length])), nil
}

func numericArg(args []term.Term, i int) (float64, error) {
	lit, ok := args[i].(term.Literal)
	if !ok {
		return 0, kerrors.New(kerrors.KindTypeError, "argument is not numeric")
	}
	f, err := strconv.ParseFloat(lit.Lexical, 64)
	if err != nil {
		return 0, kerrors.New(kerrors.KindTypeError, "argument is not numeric")
	}
	return f, nil
}

func fnUcase(args []term.Term) (term.Term, error) {
	lit, err := literalArg(args, 0, "UCASE")
	if err != nil {
		return nil, err
	}
	return preserveLangOrDatatype(lit, strings.ToUpper(lit.Lexical)), nil
}

func fnLcase(args []term.Term) (term.Term, error) {
	lit, err := literalArg(args, 0, "LCASE")
	if err != nil {
		return nil, err
	}
	return preserveLangOrDatatype(lit, strings.ToLower(lit.Lexical)), nil
}

func literalArg(args []term.Term, i int, fname string) (term.Literal, error) {
	if i >= len(args) {
		return term.Literal{}, kerrors.New(kerrors.KindTypeError, fname+" missing argument")
	}
	lit, ok := args[i].(term.Literal)
	if !ok {
		return term.Literal{}, kerrors.New(kerrors.KindTypeError, fname+" argument must be a literal")
	}
	return lit, nil
}

func fnStrstarts(args []term.Term) (term.Term, error) {
	a, b, err := twoStrings(args, "STRSTARTS")
	if err != nil {
		return nil, err
	}
	return boolTerm(strings.HasPrefix(a, b)), nil
}

func fnStrends(args []term.Term) (term.Term, error) {
	a, b, err := twoStrings(args, "STRENDS")
	if err != nil {
		return nil, err
	}
	return boolTerm(strings.HasSuffix(a, b)), nil
}

func fnContains(args []term.Term) (term.Term, error) {
	a, b, err := twoStrings(args, "CONTAINS")
	if err != nil {
		return nil, err
	}
	return boolTerm(strings.Contains(a, b)), nil
}

func fnStrbefore(args []term.Term) (term.Term, error) {
	lit, sub, err := twoStringsLit(args, "STRBEFORE")
	if err != nil {
		return nil, err
	}
	i := strings.Index(lit.Lexical, sub)
	if i < 0 {
		return term.NewString(""), nil
	}
	return preserveLangOrDatatype(lit, lit.Lexical[:i]), nil
}

func fnStrafter(args []term.Term) (term.Term, error) {
	lit, sub, err := twoStringsLit(args, "STRAFTER")
	if err != nil {
		return nil, err
	}
	i := strings.Index(lit.Lexical, sub)
	if i < 0 {
		return term.NewString(""), nil
	}
	return preserveLangOrDatatype(lit, lit.Lexical[i+len(sub):]), nil
}

func twoStrings(args []term.Term, fname string) (string, string, error) {
	if len(args) != 2 {
		return "", "", kerrors.New(kerrors.KindTypeError, fname+" takes two arguments")
	}
	a, aok := lexicalOf(args[0])
	b, bok := lexicalOf(args[1])
	if !aok || !bok {
		return "", "", kerrors.New(kerrors.KindTypeError, fname+" arguments must be string-like")
	}
	return a, b, nil
}

func twoStringsLit(args []term.Term, fname string) (term.Literal, string, error) {
	lit, err := literalArg(args, 0, fname)
	if err != nil {
		return term.Literal{}, "", err
	}
	if len(args) != 2 {
		return term.Literal{}, "", kerrors.New(kerrors.KindTypeError, fname+" takes two arguments")
	}
	sub, ok := lexicalOf(args[1])
	if !ok {
		return term.Literal{}, "", kerrors.New(kerrors.KindTypeError, fname+" second argument must be string-like")
	}
	return lit, sub, nil
}

func fnEncodeForURI(args []term.Term) (term.Term, error) {
	s, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, c := range []byte(s) {
		if isUnreservedURIByte(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteString("%")
		b.WriteString(strings.ToUpper(strconv.FormatInt(int64(c), 16)))
	}
	return term.NewString(b.String()), nil
}

func isUnreservedURIByte(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	default:
		return false
	}
}

func fnConcat(args []term.Term) (term.Term, error) {
	var b strings.Builder
	lang := ""
	sameLang := true
	for i, a := range args {
		lit, ok := a.(term.Literal)
		if !ok {
			return nil, kerrors.New(kerrors.KindTypeError, "CONCAT arguments must be literals")
		}
		if i == 0 {
			lang = lit.Language
		} else if lit.Language != lang {
			sameLang = false
		}
		b.WriteString(lit.Lexical)
	}
	if sameLang && lang != "" {
		return term.NewLangString(b.String(), lang, term.DirectionNone), nil
	}
	return term.NewString(b.String()), nil
}

// fnReplace implements REPLACE(string, pattern, replacement[, flags]),
// replacing every non-overlapping match per the spec's resolution of the
// "replace all or first" ambiguity in favor of XPath fn:replace semantics.
func fnReplace(args []term.Term) (term.Term, error) {
	if len(args) != 3 && len(args) != 4 {
		return nil, kerrors.New(kerrors.KindTypeError, "REPLACE takes three or four arguments")
	}
	lit, ok := args[0].(term.Literal)
	if !ok {
		return nil, kerrors.New(kerrors.KindTypeError, "REPLACE first argument must be a literal")
	}
	pattern, err := stringArg(args, 1)
	if err != nil {
		return nil, err
	}
	replacement, err := stringArg(args, 2)
	if err != nil {
		return nil, err
	}
	flags := ""
	if len(args) == 4 {
		flags, err = stringArg(args, 3)
		if err != nil {
			return nil, err
		}
	}
	re, err := compileRegex(pattern, flags)
	if err != nil {
		return nil, err
	}
	out := re.ReplaceAllString(lit.Lexical, translateReplacement(replacement))
	return preserveLangOrDatatype(lit, out), nil
}

// translateReplacement rewrites XPath-style $1 back-references into Go's
// regexp ${1} form.
func translateReplacement(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '$' && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
			j := i + 1
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			b.WriteString("${" + s[i+1:j] + "}")
			i = j - 1
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func fnRegex(args []term.Term) (term.Term, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, kerrors.New(kerrors.KindTypeError, "REGEX takes two or three arguments")
	}
	subject, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	pattern, err := stringArg(args, 1)
	if err != nil {
		return nil, err
	}
	flags := ""
	if len(args) == 3 {
		flags, err = stringArg(args, 2)
		if err != nil {
			return nil, err
		}
	}
	re, err := compileRegex(pattern, flags)
	if err != nil {
		return nil, err
	}
	return boolTerm(re.MatchString(subject)), nil
}

func fnLang(args []term.Term) (term.Term, error) {
	lit, err := literalArg(args, 0, "LANG")
	if err != nil {
		return nil, err
	}
	return term.NewString(lit.Language), nil
}

func fnLangMatches(args []term.Term) (term.Term, error) {
	if len(args) != 2 {
		return nil, kerrors.New(kerrors.KindTypeError, "LANGMATCHES takes two arguments")
	}
	langTag, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	rangeTag, err := stringArg(args, 1)
	if err != nil {
		return nil, err
	}
	return boolTerm(langMatches(langTag, rangeTag)), nil
}

// langMatches implements RFC 4647 basic filtering ("*" matches any
// non-empty tag; a range matches the tag or a prefix of it ending at a
// "-" boundary), the algorithm BCP 47 range-matching the spec requires.
func langMatches(tag, rnge string) bool {
	if rnge == "*" {
		return tag != ""
	}
	tag = strings.ToLower(tag)
	rnge = strings.ToLower(rnge)
	if tag == rnge {
		return true
	}
	return strings.HasPrefix(tag, rnge+"-")
}
