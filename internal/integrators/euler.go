package integrators

import "github.com/san-kum/odekit/internal/dynamo"

// Euler is the explicit first-order method x + dt·f(t, x).
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	return x.AddScaled(dt, sys.Derive(x, t)), nil
}
