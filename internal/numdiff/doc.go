// Package numdiff provides finite-difference differentiation and the small
// scalar helpers shared by the solver suite.
//
// Two routines carry the weight:
//
//   - [Derivative]: forward-difference estimate of f'(x), first order in [Step]
//   - [Jacobian]: central-difference estimate of dF/dX, second order in [Step]
//
// Both use the same fixed perturbation [Step] = 2e-8, roughly the square
// root of float64 machine epsilon. The step is not scaled to the magnitude
// of the evaluation point, so accuracy degrades for coordinates far from
// unit scale.
//
// # Errors
//
// Nothing here validates its input or returns an error. NaN and Inf coming
// out of the caller's function end up in the result, and panics raised by
// the caller's function propagate unchanged.
//
// # Example
//
//	jac := numdiff.Jacobian(func(x dynamo.State) dynamo.State {
//	    return dynamo.State{x[0] * x[1], x[0] + x[1]}
//	}, dynamo.State{2, 3})
//	// jac ≈ [[3 2] [1 1]]
package numdiff
