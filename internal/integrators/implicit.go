package integrators

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/newton"
)

// BackwardEuler is the implicit first-order method. Each step solves
//
//	y − x − dt·f(t+dt, y) = 0
//
// for y with Newton's method, starting from the explicit Euler predictor.
type BackwardEuler struct {
	solver     *newton.Solver
	analytic   bool
	iterations int
}

func NewBackwardEuler(solver *newton.Solver) *BackwardEuler {
	if solver == nil {
		solver = newton.New()
	}
	return &BackwardEuler{solver: solver}
}

func (b *BackwardEuler) Name() string { return "backward_euler" }

// WithAnalyticJacobian makes Newton use the system's own Jacobian when the
// system is dynamo.Linearizable.
func (b *BackwardEuler) WithAnalyticJacobian() *BackwardEuler {
	b.analytic = true
	return b
}

// Iterations returns the Newton iterations spent over all steps so far.
func (b *BackwardEuler) Iterations() int { return b.iterations }

func (b *BackwardEuler) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	tNext := t + dt
	residual := func(y dynamo.State) dynamo.State {
		return y.Sub(x).AddScaled(-dt, sys.Derive(y, tNext))
	}

	predictor := x.AddScaled(dt, sys.Derive(x, t))
	return solveStep(b.solver, sys, b.analytic, residual, predictor, tNext, dt, &b.iterations)
}

// Trapezoidal is the implicit second-order trapezoidal rule (Crank-Nicolson):
//
//	y − x − dt/2·(f(t, x) + f(t+dt, y)) = 0
type Trapezoidal struct {
	solver     *newton.Solver
	analytic   bool
	iterations int
}

func NewTrapezoidal(solver *newton.Solver) *Trapezoidal {
	if solver == nil {
		solver = newton.New()
	}
	return &Trapezoidal{solver: solver}
}

func (tr *Trapezoidal) Name() string { return "trapezoidal" }

func (tr *Trapezoidal) WithAnalyticJacobian() *Trapezoidal {
	tr.analytic = true
	return tr
}

func (tr *Trapezoidal) Iterations() int { return tr.iterations }

func (tr *Trapezoidal) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	tNext := t + dt
	fx := sys.Derive(x, t)
	explicitPart := x.AddScaled(0.5*dt, fx)

	residual := func(y dynamo.State) dynamo.State {
		return y.Sub(explicitPart).AddScaled(-0.5*dt, sys.Derive(y, tNext))
	}

	predictor := x.AddScaled(dt, fx)
	return solveStep(tr.solver, sys, tr.analytic, residual, predictor, tNext, 0.5*dt, &tr.iterations)
}

// solveStep runs Newton on residual. With analytic set and a Linearizable
// system, I − h·df/dy replaces the finite-difference Jacobian.
func solveStep(
	solver *newton.Solver,
	sys dynamo.System,
	analytic bool,
	residual func(dynamo.State) dynamo.State,
	predictor dynamo.State,
	tNext, h float64,
	iterations *int,
) (dynamo.State, error) {
	s := *solver
	if lin, ok := sys.(dynamo.Linearizable); ok && analytic && s.Jacobian == nil {
		s.Jacobian = func(y dynamo.State) *mat.Dense {
			n := len(y)
			jac := mat.NewDense(n, n, nil)
			jac.Scale(-h, lin.Jacobian(y, tNext))
			for i := 0; i < n; i++ {
				jac.Set(i, i, jac.At(i, i)+1)
			}
			return jac
		}
	}

	y, stats, err := s.Solve(residual, predictor)
	*iterations += stats.Iterations
	if err != nil {
		return nil, fmt.Errorf("implicit step to t=%.6g: %w", tNext, err)
	}
	return y, nil
}
