package sparql

import (
	"encoding/json"

	"github.com/kbvault/sparql/term"
)

// jsonTerm is one binding's wire representation, following the shape of
// the W3C SPARQL 1.1 Query Results JSON Format (a "type" discriminator
// plus "value", with "datatype"/"xml:lang" for literals).
type jsonTerm struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

func toJSONTerm(t term.Term) jsonTerm {
	switch v := t.(type) {
	case term.IRI:
		return jsonTerm{Type: "uri", Value: v.Value}
	case term.Blank:
		return jsonTerm{Type: "bnode", Value: v.ID}
	case term.Literal:
		jt := jsonTerm{Type: "literal", Value: v.Lexical}
		if v.Language != "" {
			jt.Lang = v.Language
		} else if dt := v.EffectiveDatatype(); dt != term.XSDString {
			jt.Datatype = dt
		}
		return jt
	case term.QuotedTriple:
		// No standard JSON encoding for RDF-star terms; fall back to the
		// term's canonical textual form so callers still get something
		// round-trippable for debugging.
		return jsonTerm{Type: "triple", Value: v.String()}
	default:
		return jsonTerm{Type: "literal", Value: t.String()}
	}
}

// jsonResult mirrors Result's shape for marshaling: exactly one of
// "results", "boolean" or "triples" is populated, chosen by Kind.
type jsonResult struct {
	Head    jsonHead    `json:"head,omitempty"`
	Results *jsonRows   `json:"results,omitempty"`
	Boolean *bool       `json:"boolean,omitempty"`
	Triples []jsonQuad  `json:"triples,omitempty"`
}

type jsonHead struct {
	Vars []string `json:"vars,omitempty"`
}

type jsonRows struct {
	Bindings []map[string]jsonTerm `json:"bindings"`
}

type jsonQuad struct {
	Subject   jsonTerm `json:"subject"`
	Predicate jsonTerm `json:"predicate"`
	Object    jsonTerm `json:"object"`
	Graph     string   `json:"graph,omitempty"`
}

// MarshalJSON renders Result in the canonical JSON shape callers
// consume: SELECT as head/results bindings, ASK as a bare boolean,
// CONSTRUCT/DESCRIBE as a triple list.
func (r Result) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ResultBoolean:
		b := r.Boolean
		return json.Marshal(jsonResult{Boolean: &b})

	case ResultTriples:
		quads := make([]jsonQuad, 0, len(r.Triples))
		for _, t := range r.Triples {
			q := jsonQuad{
				Subject:   toJSONTerm(t.Subject),
				Predicate: toJSONTerm(t.Predicate),
				Object:    toJSONTerm(t.Object),
			}
			if t.Graph != nil {
				q.Graph = t.Graph.Value
			}
			quads = append(quads, q)
		}
		return json.Marshal(jsonResult{Triples: quads})

	default:
		bindings := make([]map[string]jsonTerm, 0, len(r.Solutions))
		for _, sol := range r.Solutions {
			row := make(map[string]jsonTerm, len(sol))
			for _, name := range sol.Variables() {
				v, _ := sol.Get(name)
				row[name] = toJSONTerm(v)
			}
			bindings = append(bindings, row)
		}
		return json.Marshal(jsonResult{
			Head:    jsonHead{Vars: r.Vars},
			Results: &jsonRows{Bindings: bindings},
		})
	}
}
