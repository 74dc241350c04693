package rewrite

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// VocabularyResolver resolves a vocabulary IRI (as named in `PREFIX * <uri>`)
// to the set of prefix -> namespace bindings it defines. Implementations
// may need network I/O (fetching and parsing the vocabulary document),
// which is why resolution only happens on the async parse path.
type VocabularyResolver interface {
	Resolve(ctx context.Context, vocabularyURI string) (map[string]string, error)
}

// wellKnownVocabularies maps a vocabulary IRI to the prefix bindings it is
// conventionally published under, covering the table named in the spec:
// schema.org, FOAF, DC, RDF/RDFS, OWL, XSD, SKOS, PROV, DCAT, GEO.
var wellKnownVocabularies = map[string]map[string]string{
	"http://schema.org/":                        {"schema": "http://schema.org/"},
	"https://schema.org/":                       {"schema": "http://schema.org/"},
	"http://xmlns.com/foaf/0.1/":                {"foaf": "http://xmlns.com/foaf/0.1/"},
	"http://purl.org/dc/elements/1.1/":          {"dc": "http://purl.org/dc/elements/1.1/"},
	"http://purl.org/dc/terms/":                 {"dcterms": "http://purl.org/dc/terms/"},
	"http://www.w3.org/1999/02/22-rdf-syntax-ns#": {"rdf": "http://www.w3.org/1999/02/22-rdf-syntax-ns#"},
	"http://www.w3.org/2000/01/rdf-schema#":       {"rdfs": "http://www.w3.org/2000/01/rdf-schema#"},
	"http://www.w3.org/2002/07/owl#":              {"owl": "http://www.w3.org/2002/07/owl#"},
	"http://www.w3.org/2001/XMLSchema#":           {"xsd": "http://www.w3.org/2001/XMLSchema#"},
	"http://www.w3.org/2004/02/skos/core#":        {"skos": "http://www.w3.org/2004/02/skos/core#"},
	"http://www.w3.org/ns/prov#":                  {"prov": "http://www.w3.org/ns/prov#"},
	"http://www.w3.org/ns/dcat#":                  {"dcat": "http://www.w3.org/ns/dcat#"},
	"http://www.opengis.net/ont/geosparql#":        {"geo": "http://www.opengis.net/ont/geosparql#"},
}

// ErrPrefixStarResolutionFailed is returned when a PREFIX* vocabulary IRI
// is unknown and no fallback prefix could be derived.
var ErrPrefixStarResolutionFailed = errors.New("PrefixStarResolutionFailed: could not resolve vocabulary to any prefix bindings")

// ErrPrefixStarRequiresAsync is returned by the sync parse path when the
// query contains a PREFIX* directive.
var ErrPrefixStarRequiresAsync = errors.New("PrefixStarRequiresAsync: PREFIX * requires the async parse path")

// resolveVocabulary resolves a vocabulary IRI to prefix bindings, trying
// the well-known table first, then the supplied resolver, then falling
// back to deriving a single prefix from the IRI's last meaningful path
// segment.
func resolveVocabulary(ctx context.Context, uri string, resolver VocabularyResolver) (map[string]string, error) {
	if bindings, ok := wellKnownVocabularies[uri]; ok {
		return bindings, nil
	}
	if resolver != nil {
		bindings, err := resolver.Resolve(ctx, uri)
		if err == nil && len(bindings) > 0 {
			return bindings, nil
		}
	}
	if prefix, ok := derivePrefixFromPath(uri); ok {
		return map[string]string{prefix: uri}, nil
	}
	return nil, ErrPrefixStarResolutionFailed
}

// derivePrefixFromPath extracts a usable prefix name from the last
// meaningful path segment of a vocabulary IRI, e.g.
// "http://example.com/ontology/widgets#" -> "widgets".
func derivePrefixFromPath(uri string) (string, bool) {
	trimmed := strings.TrimRight(uri, "#/")
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	parts := strings.FieldsFunc(trimmed, func(r rune) bool { return r == '/' })
	if len(parts) == 0 {
		return "", false
	}
	last := parts[len(parts)-1]
	last = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, last)
	if last == "" {
		return "", false
	}
	return strings.ToLower(last), true
}
