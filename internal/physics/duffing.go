package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odekit/internal/dynamo"
)

// Duffing is a forced nonlinear oscillator made autonomous by carrying
// the forcing phase as a third state, so x = (position, velocity, phase).
type Duffing struct {
	Alpha, Beta, Delta, Gamma, Omega float64
}

func NewDuffing() *Duffing {
	return &Duffing{Alpha: -1.0, Beta: 1.0, Delta: 0.3, Gamma: 0.5, Omega: 1.2}
}

func (d *Duffing) StateDim() int { return 3 }

func (d *Duffing) Derive(s dynamo.State, _ float64) dynamo.State {
	x, v, phi := s[0], s[1], s[2]
	return dynamo.State{v, -d.Delta*v - d.Alpha*x - d.Beta*x*x*x + d.Gamma*math.Cos(phi), d.Omega}
}

func (d *Duffing) Jacobian(s dynamo.State, _ float64) *mat.Dense {
	x, phi := s[0], s[2]
	return mat.NewDense(3, 3, []float64{
		0, 1, 0,
		-d.Alpha - 3*d.Beta*x*x, -d.Delta, -d.Gamma * math.Sin(phi),
		0, 0, 0,
	})
}

func (d *Duffing) DefaultState() dynamo.State { return dynamo.State{1.0, 0.0, 0.0} }

func (d *Duffing) Params() map[string]float64 {
	return map[string]float64{"alpha": d.Alpha, "beta": d.Beta, "delta": d.Delta, "gamma": d.Gamma, "omega": d.Omega}
}

func (d *Duffing) SetParam(n string, v float64) error {
	switch n {
	case "alpha":
		d.Alpha = v
	case "beta":
		d.Beta = v
	case "delta":
		if v < 0 {
			return fmt.Errorf("duffing: delta=%g: %w", v, dynamo.ErrParameterBounds)
		}
		d.Delta = v
	case "gamma":
		d.Gamma = v
	case "omega":
		d.Omega = v
	default:
		return fmt.Errorf("duffing: %q: %w", n, dynamo.ErrUnknownParam)
	}
	return nil
}
