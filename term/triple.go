package term

import "fmt"

// Triple is a (subject, predicate, object) tuple, optionally scoped to a
// named graph. The default graph is represented by a nil Graph.
//
// Subject may be an IRI, Blank or QuotedTriple; Predicate is always an
// IRI; Object may be any Term.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     *IRI // nil means the default graph
}

// Equals compares two triples including graph membership.
func (t Triple) Equals(o Triple) bool {
	if !t.Subject.Equals(o.Subject) || !t.Predicate.Equals(o.Predicate) || !t.Object.Equals(o.Object) {
		return false
	}
	if (t.Graph == nil) != (o.Graph == nil) {
		return false
	}
	if t.Graph != nil && !t.Graph.Equals(*o.Graph) {
		return false
	}
	return true
}

// Key returns a comparable string uniquely identifying the triple,
// including graph, for use as a map key in indices and dedup sets.
func (t Triple) Key() string {
	g := ""
	if t.Graph != nil {
		g = t.Graph.Value
	}
	return fmt.Sprintf("%s\x00%s\x00%s\x00%s", t.Subject, t.Predicate, t.Object, g)
}

func (t Triple) String() string {
	if t.Graph != nil {
		return fmt.Sprintf("%s %s %s %s .", t.Subject, t.Predicate, t.Object, t.Graph)
	}
	return fmt.Sprintf("%s %s %s .", t.Subject, t.Predicate, t.Object)
}

// AsQuoted returns the triple's statement (ignoring graph) as a term, for
// use as the subject/object of an RDF-star annotation or quoted triple.
func (t Triple) AsQuoted() QuotedTriple {
	return QuotedTriple{Subject: t.Subject, Predicate: t.Predicate, Object: t.Object}
}
