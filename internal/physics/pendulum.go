package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odekit/internal/dynamo"
)

// Pendulum is a damped rigid pendulum, state [theta, omega]. Its
// equilibria sit at theta = kπ: even k hanging (stable with damping),
// odd k inverted (saddle).
type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: 9.81,
	}
}

func (p *Pendulum) StateDim() int {
	return 2
}

func (p *Pendulum) inertia() float64 { return p.Mass * p.Length * p.Length }

func (p *Pendulum) Derive(x dynamo.State, _ float64) dynamo.State {
	theta, omega := x[0], x[1]
	alpha := (-p.Damping*omega - p.Mass*p.Gravity*p.Length*math.Sin(theta)) / p.inertia()
	return dynamo.State{omega, alpha}
}

func (p *Pendulum) Jacobian(x dynamo.State, _ float64) *mat.Dense {
	i := p.inertia()
	return mat.NewDense(2, 2, []float64{
		0, 1,
		-p.Mass * p.Gravity * p.Length * math.Cos(x[0]) / i, -p.Damping / i,
	})
}

func (p *Pendulum) DefaultState() dynamo.State { return dynamo.State{0.5, 0} }

func (p *Pendulum) Energy(x dynamo.State) float64 {
	// KE = 0.5 * m * (L*omega)^2
	// PE = m * g * L * (1 - cos(theta))
	v := p.Length * x[1]
	ke := 0.5 * p.Mass * v * v
	pe := p.Mass * p.Gravity * p.Length * (1.0 - math.Cos(x[0]))
	return ke + pe
}

func (p *Pendulum) Params() map[string]float64 {
	return map[string]float64{
		"mass":    p.Mass,
		"length":  p.Length,
		"damping": p.Damping,
		"gravity": p.Gravity,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "mass", "length":
		if value <= 0 {
			return fmt.Errorf("pendulum: %s=%g: %w", name, value, dynamo.ErrParameterBounds)
		}
		if name == "mass" {
			p.Mass = value
		} else {
			p.Length = value
		}
	case "damping":
		p.Damping = value
	case "gravity":
		p.Gravity = value
	default:
		return fmt.Errorf("pendulum: %q: %w", name, dynamo.ErrUnknownParam)
	}
	return nil
}
