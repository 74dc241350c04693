package aggregation

import "github.com/kbvault/sparql/term"

// modeAgg returns the most frequent value, keyed by its term string
// form since RDF terms don't hash directly; ties break on first-seen
// order for determinism.
type modeAgg struct {
	counts map[string]int
	first  map[string]term.Term
	order  []string
}

func (m *modeAgg) Step(v term.Term) error {
	if v == nil {
		return nil
	}
	if m.counts == nil {
		m.counts = map[string]int{}
		m.first = map[string]term.Term{}
	}
	key := v.String()
	if _, ok := m.counts[key]; !ok {
		m.first[key] = v
		m.order = append(m.order, key)
	}
	m.counts[key]++
	return nil
}

func (m *modeAgg) Finalize() (term.Term, error) {
	if len(m.order) == 0 {
		return nil, errNoRows
	}
	best := m.order[0]
	for _, key := range m.order[1:] {
		if m.counts[key] > m.counts[best] {
			best = key
		}
	}
	return m.first[best], nil
}
