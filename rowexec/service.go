package rowexec

import (
	"context"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/kerrors"
)

// ServiceAdapter evaluates a SERVICE clause's Input against a remote
// endpoint. The engine ships no HTTP transport (out of scope); callers
// that need SERVICE support supply their own adapter at Executor
// construction.
type ServiceAdapter interface {
	Service(ctx context.Context, endpoint algebra.Term, input algebra.Op) (Iterator, error)
}

// unsupportedServiceAdapter is the default ServiceAdapter: it rejects
// every request unless the clause is SILENT, in which case SERVICE
// SILENT's contract is an empty solution (one row, no bindings) so the
// surrounding query still runs rather than aborting.
type unsupportedServiceAdapter struct{}

func (unsupportedServiceAdapter) Service(ctx context.Context, endpoint algebra.Term, input algebra.Op) (Iterator, error) {
	return nil, kerrors.New(kerrors.KindUnsupportedFeature, "SERVICE requires a configured ServiceAdapter")
}

func (ex *Executor) execService(ctx context.Context, s algebra.Service, scope graphScope) (Iterator, error) {
	it, err := ex.Service.Service(ctx, s.Endpoint, s.Input)
	if err != nil {
		if s.Silent {
			return newSliceIter([]Solution{{}}), nil
		}
		return nil, err
	}
	return it, nil
}
