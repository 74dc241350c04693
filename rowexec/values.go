package rowexec

import (
	"github.com/kbvault/sparql/algebra"
)

// execValues yields one Solution per row of v.Bindings. A nil entry in a
// row means that variable is UNDEF for that row (left unbound), not bound
// to some "undefined" term.
func (ex *Executor) execValues(v algebra.Values) (Iterator, error) {
	rows := make([]Solution, 0, len(v.Bindings))
	for _, binding := range v.Bindings {
		row := Solution{}
		for i, val := range binding {
			if i >= len(v.Vars) || val == nil {
				continue
			}
			row[v.Vars[i]] = val
		}
		rows = append(rows, row)
	}
	return newSliceIter(rows), nil
}
