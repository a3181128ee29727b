package sim

import (
	"context"
	"sync"

	"github.com/san-kum/odekit/internal/dynamo"
)

// Ensemble runs one system from many initial states concurrently. Each
// run gets its own integrator because integrators keep scratch buffers.
type Ensemble struct {
	sys           dynamo.System
	newIntegrator func() dynamo.Integrator
}

func NewEnsemble(sys dynamo.System, newIntegrator func() dynamo.Integrator) *Ensemble {
	return &Ensemble{sys: sys, newIntegrator: newIntegrator}
}

// Run returns one result per initial state, in order. The first error
// encountered is returned after all runs finish.
func (e *Ensemble) Run(ctx context.Context, initial []dynamo.State, cfg dynamo.Config) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(initial))
	errs := make([]error, len(initial))

	var wg sync.WaitGroup
	for i := range initial {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s := New(e.sys, e.newIntegrator())
			results[idx], errs[idx] = s.Run(ctx, initial[idx], cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
