package analysis

import (
	"fmt"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/newton"
)

// BranchPoint is one equilibrium on a parameter sweep.
type BranchPoint struct {
	Param float64
	*Equilibrium
}

// EquilibriumBranch sweeps a parameter and follows one equilibrium,
// seeding each Newton solve with the previous point. Stability changes
// along the branch mark local bifurcations.
//
// Parameters:
// - sys: dynamics with Configurable interface
// - paramName: name of parameter to sweep
// - paramMin, paramMax: range to sweep
// - paramSteps: number of parameter values to test
// - guess: starting point for the first solve
//
// The parameter is restored to its original value before returning.
func EquilibriumBranch(
	sys dynamo.System,
	paramName string,
	paramMin, paramMax float64,
	paramSteps int,
	guess dynamo.State,
	solver *newton.Solver,
) ([]BranchPoint, error) {
	tunable, ok := sys.(dynamo.Configurable)
	if !ok {
		return nil, fmt.Errorf("analysis: system is not configurable")
	}
	original, ok := tunable.Params()[paramName]
	if !ok {
		return nil, fmt.Errorf("analysis: %q: %w", paramName, dynamo.ErrUnknownParam)
	}
	defer func() { _ = tunable.SetParam(paramName, original) }()

	if paramSteps < 1 {
		paramSteps = 1
	}

	branch := make([]BranchPoint, 0, paramSteps)
	x := guess.Clone()

	for i := 0; i < paramSteps; i++ {
		p := paramMin
		if paramSteps > 1 {
			p = paramMin + (paramMax-paramMin)*float64(i)/float64(paramSteps-1)
		}
		if err := tunable.SetParam(paramName, p); err != nil {
			return branch, err
		}

		eq, err := FindEquilibrium(sys, x, 0, solver)
		if err != nil {
			return branch, fmt.Errorf("%s=%g: %w", paramName, p, err)
		}

		branch = append(branch, BranchPoint{Param: p, Equilibrium: eq})
		x = eq.State
	}

	return branch, nil
}
