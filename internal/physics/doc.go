// Package physics provides reference ODE systems for the solver suite.
//
// Each model implements [dynamo.System] and [dynamo.Linearizable], so its
// analytic Jacobian can be compared against the finite-difference one:
//
//   - [Pendulum]: damped pendulum with stable and inverted equilibria
//   - [VanDerPol]: relaxation oscillator, stiff for large mu
//   - [Lorenz]: butterfly attractor
//   - [Rossler]: single-lobe chaotic attractor
//   - [Duffing]: forced double-well oscillator
//   - [Robertson]: stiff chemical kinetics
//   - [Linear]: constant-coefficient system dx/dt = A·x
//
// The nonlinear models also implement [dynamo.Configurable] for runtime
// parameter adjustment.
package physics
