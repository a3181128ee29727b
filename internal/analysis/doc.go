// Package analysis provides linear stability and chaos analysis built on
// finite-difference Jacobians.
//
//   - [Linearize]: Jacobian of a system at a point
//   - [FindEquilibrium]: Newton search for f(x) = 0 plus eigenvalue classification
//   - [EquilibriumBranch]: parameter sweep following one equilibrium
//   - [LyapunovExponent]: largest Lyapunov exponent from the tangent map
//   - [CheckJacobian]: finite-difference vs analytic Jacobian
//
// # Stability
//
// An equilibrium is stable when every eigenvalue of the Jacobian has a
// negative real part:
//
//	eq, err := analysis.FindEquilibrium(sys, guess, 0, nil)
//	if err == nil && eq.Stability == analysis.Stable {
//	    // small perturbations decay
//	}
package analysis
