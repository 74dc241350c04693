package rowexec

import (
	"context"
	"io"

	"github.com/kbvault/sparql/algebra"
)

// Ask reports whether a.Where yields at least one solution, stopping at
// the first row rather than draining the whole stream.
func (ex *Executor) Ask(ctx context.Context, a algebra.Ask) (bool, error) {
	it, err := ex.build(ctx, a.Where, defaultGraphScope())
	if err != nil {
		return false, err
	}
	defer it.Close()
	_, err = it.Next(ctx)
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
