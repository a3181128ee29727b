package numdiff

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odekit/internal/dynamo"
)

const (
	// Step is the finite-difference perturbation shared by Derivative and Jacobian.
	Step = 2e-8
	// InverseStep is 1/Step.
	InverseStep = 1. / Step
)

// ScalarFunc is a real function of one variable.
type ScalarFunc func(x float64) float64

// VectorFunc maps a vector of length N to a vector of length N.
type VectorFunc func(x dynamo.State) dynamo.State

// Derivative estimates f'(x) with the forward difference (f(x+h) - f(x)) / h.
func Derivative(f ScalarFunc, x float64) float64 {
	return (f(x+Step) - f(x)) * InverseStep
}

// Jacobian estimates the N×N matrix dF/dX at x with central differences,
// one column per coordinate:
//
//	J[:, j] = (F(x + h/2·e_j) - F(x - h/2·e_j)) / h
//
// x is not modified and must be non-empty. F must return vectors of length
// len(x); any other length panics with a gonum shape error.
func Jacobian(F VectorFunc, x dynamo.State) *mat.Dense {
	n := len(x)

	jac := mat.NewDense(n, n, nil)
	dx := make(dynamo.State, n)

	for j := 0; j < n; j++ {
		// Only dx[j] is nonzero inside this body.
		dx[j] = Step
		col := F(x.AddScaled(0.5, dx)).Sub(F(x.AddScaled(-0.5, dx))).Scale(InverseStep)
		dx[j] = 0

		jac.SetCol(j, col)
	}

	return jac
}

// SystemJacobian is the Jacobian of x ↦ f(t, x) with t held fixed.
func SystemJacobian(f dynamo.RHS, t float64, x dynamo.State) *mat.Dense {
	return Jacobian(func(y dynamo.State) dynamo.State { return f(t, y) }, x)
}
