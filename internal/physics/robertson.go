package physics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odekit/internal/dynamo"
)

// Robertson is the classic stiff chemical kinetics problem:
//
//	dy1/dt = -k1·y1 + k3·y2·y3
//	dy2/dt =  k1·y1 - k3·y2·y3 - k2·y2²
//	dy3/dt =  k2·y2²
//
// Rate constants span nine orders of magnitude, so explicit methods need
// tiny steps while implicit ones do not. y1+y2+y3 is conserved.
type Robertson struct {
	k1, k2, k3 float64
}

func NewRobertson() *Robertson {
	return &Robertson{k1: 0.04, k2: 3e7, k3: 1e4}
}

func (r *Robertson) StateDim() int { return 3 }

func (r *Robertson) Derive(y dynamo.State, _ float64) dynamo.State {
	fast := r.k3 * y[1] * y[2]
	slow := r.k1 * y[0]
	quad := r.k2 * y[1] * y[1]
	return dynamo.State{-slow + fast, slow - fast - quad, quad}
}

func (r *Robertson) Jacobian(y dynamo.State, _ float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		-r.k1, r.k3 * y[2], r.k3 * y[1],
		r.k1, -r.k3*y[2] - 2*r.k2*y[1], -r.k3 * y[1],
		0, 2 * r.k2 * y[1], 0,
	})
}

func (r *Robertson) DefaultState() dynamo.State { return dynamo.State{1, 0, 0} }

// Energy returns the conserved total concentration.
func (r *Robertson) Energy(y dynamo.State) float64 { return y[0] + y[1] + y[2] }

func (r *Robertson) Params() map[string]float64 {
	return map[string]float64{"k1": r.k1, "k2": r.k2, "k3": r.k3}
}

func (r *Robertson) SetParam(name string, value float64) error {
	var k *float64
	switch name {
	case "k1":
		k = &r.k1
	case "k2":
		k = &r.k2
	case "k3":
		k = &r.k3
	default:
		return fmt.Errorf("robertson: %q: %w", name, dynamo.ErrUnknownParam)
	}
	if value < 0 {
		return fmt.Errorf("robertson: %s=%g: %w", name, value, dynamo.ErrParameterBounds)
	}
	*k = value
	return nil
}
