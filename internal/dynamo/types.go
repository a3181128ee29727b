package dynamo

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// MaxAbs returns the infinity norm of s.
func (s State) MaxAbs() float64 {
	m := 0.0
	for _, v := range s {
		if a := math.Abs(v); a > m || math.IsNaN(a) {
			m = a
		}
	}
	return m
}

func (s State) Add(other State) State {
	return s.AddScaled(1, other)
}

func (s State) Sub(other State) State {
	return s.AddScaled(-1, other)
}

// AddScaled returns s + a*other. Entries of s beyond len(other) are copied.
func (s State) AddScaled(a float64, other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + a*other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// System is an autonomous or time-dependent ODE right-hand side dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// RHS adapts a plain function to an ODE right-hand side.
type RHS func(t float64, x State) State

// AsRHS wraps a System as an RHS.
func AsRHS(sys System) RHS {
	return func(t float64, x State) State { return sys.Derive(x, t) }
}

// Linearizable systems know their analytic Jacobian df/dx.
type Linearizable interface {
	Jacobian(x State, t float64) *mat.Dense
}

// Hamiltonian systems expose a quantity conserved by the exact flow.
type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Name() string
	Step(sys System, x State, t, dt float64) (State, error)
}

// IterativeIntegrator reports the nonlinear solver work done so far.
type IterativeIntegrator interface {
	Integrator
	Iterations() int
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Configurable interface {
	Params() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		ValidateState: true,
	}
}

type Result struct {
	States           []State
	Times            []float64
	Metrics          map[string]float64
	StepsTaken       int
	NewtonIterations int
}

// Final returns the last recorded state, or nil for an empty result.
func (r *Result) Final() State {
	if r == nil || len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
