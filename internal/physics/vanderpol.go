package physics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odekit/internal/dynamo"
)

// VanDerPol implements the Van der Pol oscillator.
// State: [x, y] where y = dx/dt
// Equations:
//
//	dx/dt = y
//	dy/dt = μ(1 - x²)y - x
//
// The system is stiff for large μ.
type VanDerPol struct {
	mu float64 // Nonlinearity parameter
}

func NewVanDerPol() *VanDerPol {
	return &VanDerPol{
		mu: 1.0, // Classic value for limit cycle
	}
}

func (v *VanDerPol) StateDim() int { return 2 }

func (v *VanDerPol) Derive(state dynamo.State, _ float64) dynamo.State {
	x, y := state[0], state[1]
	return dynamo.State{y, v.mu*(1-x*x)*y - x}
}

func (v *VanDerPol) Jacobian(state dynamo.State, _ float64) *mat.Dense {
	x, y := state[0], state[1]
	return mat.NewDense(2, 2, []float64{
		0, 1,
		-2*v.mu*x*y - 1, v.mu * (1 - x*x),
	})
}

func (v *VanDerPol) DefaultState() dynamo.State {
	return dynamo.State{2.0, 0.0}
}

// Params implements dynamo.Configurable
func (v *VanDerPol) Params() map[string]float64 {
	return map[string]float64{
		"mu": v.mu,
	}
}

// SetParam implements dynamo.Configurable
func (v *VanDerPol) SetParam(name string, value float64) error {
	if name != "mu" {
		return fmt.Errorf("vanderpol: %q: %w", name, dynamo.ErrUnknownParam)
	}
	if value < 0 {
		return fmt.Errorf("vanderpol: mu=%g: %w", value, dynamo.ErrParameterBounds)
	}
	v.mu = value
	return nil
}
