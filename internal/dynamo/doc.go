// Package dynamo provides the shared types of the solver suite.
//
// The package defines the vocabulary every other package speaks:
//
//   - [State]: vector representing a point in phase space
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Linearizable]: systems with an analytic Jacobian
//   - [Integrator]: one-step numerical integrator interface
//   - [Metric]: per-step observer accumulated into a [Result]
//
// # Example
//
//	sys := physics.NewVanDerPol()
//	integ := integrators.NewBackwardEuler(newton.New())
//	x, err := integ.Step(sys, sys.DefaultState(), 0, 0.01)
//
// Matrices are gonum [mat.Dense] values throughout the suite.
package dynamo
