package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odekit/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent by carrying a
// tangent vector along the trajectory. A positive value indicates chaos.
//
// Algorithm:
// 1. δ ← δ + dt·J(x)·δ, with J the finite-difference Jacobian at x
// 2. accumulate ln|δ| and renormalize δ to unit length
// 3. advance x with integ
// 4. λ ≈ Σ ln|δ| / duration
func LyapunovExponent(
	sys dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
) (float64, error) {
	n := len(x0)
	steps := int(duration / dt)
	if n == 0 || steps == 0 {
		return 0, nil
	}

	x := x0.Clone()
	delta := make(dynamo.State, n)
	for i := range delta {
		delta[i] = 1 / math.Sqrt(float64(n))
	}

	tangent := mat.NewVecDense(n, nil)
	sumLog := 0.0
	t := 0.0

	for i := 0; i < steps; i++ {
		tangent.MulVec(Linearize(sys, x, t), mat.NewVecDense(n, delta))
		delta = delta.AddScaled(dt, tangent.RawVector().Data)

		norm := delta.Norm()
		if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
			return 0, &dynamo.SimulationError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState}
		}
		sumLog += math.Log(norm)
		delta = delta.Scale(1 / norm)

		var err error
		x, err = integ.Step(sys, x, t, dt)
		if err != nil {
			return 0, fmt.Errorf("lyapunov: %w", err)
		}
		t += dt
	}

	return sumLog / (float64(steps) * dt), nil
}
