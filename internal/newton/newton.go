// Package newton solves nonlinear systems F(x) = 0 with Newton's method,
// linearizing F at every iterate with a finite-difference Jacobian.
package newton

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/numdiff"
)

const (
	DefaultTol     = 1e-10
	DefaultMaxIter = 50
)

// JacobianFunc returns dF/dx at x.
type JacobianFunc func(x dynamo.State) *mat.Dense

type Solver struct {
	Tol     float64
	MaxIter int

	// Jacobian overrides the finite-difference linearization when set.
	Jacobian JacobianFunc
}

// Stats describes the work done by one Solve call.
type Stats struct {
	Iterations int
	Residual   float64
	// Condition is the largest condition number estimate reported by the
	// LU solves, or zero when every solve was well conditioned.
	Condition float64
}

func New() *Solver {
	return &Solver{
		Tol:     DefaultTol,
		MaxIter: DefaultMaxIter,
	}
}

// Solve iterates x ← x − J(x)⁻¹·F(x) from x0 until the update or the
// residual falls below Tol. At least one iteration runs unless x0 is an
// exact root. x0 is not modified.
func (s *Solver) Solve(F numdiff.VectorFunc, x0 dynamo.State) (dynamo.State, Stats, error) {
	var stats Stats

	n := len(x0)
	x := x0.Clone()

	r := F(x)
	if len(r) != n {
		return x, stats, fmt.Errorf("newton: F returned %d values for %d unknowns: %w", len(r), n, dynamo.ErrDimensionMismatch)
	}
	stats.Residual = r.MaxAbs()
	if stats.Residual == 0 {
		return x, stats, nil
	}

	delta := mat.NewVecDense(n, nil)

	for stats.Iterations < s.MaxIter {
		stats.Iterations++

		jac := s.linearize(F, x)
		if err := delta.SolveVec(jac, mat.NewVecDense(n, r)); err != nil {
			var cond mat.Condition
			if !errors.As(err, &cond) {
				return x, stats, fmt.Errorf("iteration %d: %w: %w", stats.Iterations, ErrSingularJacobian, err)
			}
			stats.Condition = max(stats.Condition, float64(cond))
		}

		step := delta.RawVector().Data
		floats.Sub(x, step)

		if !x.IsValid() {
			return x, stats, fmt.Errorf("iteration %d: %w", stats.Iterations, ErrDiverged)
		}

		r = F(x)
		stats.Residual = r.MaxAbs()
		if !r.IsValid() {
			return x, stats, fmt.Errorf("iteration %d: %w", stats.Iterations, ErrDiverged)
		}

		if stats.Residual <= s.Tol || floats.Norm(step, math.Inf(1)) <= s.Tol*(1+x.MaxAbs()) {
			return x, stats, nil
		}
	}

	return x, stats, fmt.Errorf("%w after %d iterations (residual %.3e)", ErrNotConverged, stats.Iterations, stats.Residual)
}

func (s *Solver) linearize(F numdiff.VectorFunc, x dynamo.State) *mat.Dense {
	if s.Jacobian != nil {
		return s.Jacobian(x)
	}
	return numdiff.Jacobian(F, x)
}
