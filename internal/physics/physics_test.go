package physics

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/numdiff"
)

type model interface {
	dynamo.System
	dynamo.Linearizable
	DefaultState() dynamo.State
}

func models(t *testing.T) map[string]model {
	t.Helper()
	lin, err := NewLinear(mat.NewDense(3, 3, []float64{
		-1, 2, 0,
		0, -3, 1,
		0.5, 0, -2,
	}))
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	return map[string]model{
		"pendulum":   NewPendulum(),
		"vanderpol":  NewVanDerPol(),
		"lorenz":     NewLorenz(),
		"robertson":  NewRobertson(),
		"duffing":    NewDuffing(),
		"rossler":    NewRossler(),
		"linear":     lin,
		"oscillator": NewDampedOscillator(2, 0.1),
	}
}

func TestAnalyticJacobianMatchesFiniteDifference(t *testing.T) {
	points := []dynamo.State{nil, {0.3, -0.7, 1.2}, {-1.1, 0.4, 0.05}}

	for name, m := range models(t) {
		for _, p := range points {
			x := m.DefaultState()
			if p != nil {
				x = p[:m.StateDim()]
			}
			if name == "robertson" && p != nil {
				// Keep concentrations in the physical range.
				x = dynamo.State{0.9, 3e-5, 0.1}
			}

			fdJac := numdiff.SystemJacobian(dynamo.AsRHS(m), 0, x)
			exact := m.Jacobian(x, 0)

			// Relative tolerance: Robertson entries reach 1e4.
			scale := math.Max(1, mat.Norm(exact, math.Inf(1)))
			if !mat.EqualApprox(fdJac, exact, 1e-5*scale) {
				t.Errorf("%s at %v:\nfinite difference\n%v\nanalytic\n%v",
					name, x, mat.Formatted(fdJac), mat.Formatted(exact))
			}
		}
	}
}

func TestStateDims(t *testing.T) {
	for name, m := range models(t) {
		if got := len(m.Derive(m.DefaultState(), 0)); got != m.StateDim() {
			t.Errorf("%s: Derive returned %d values, StateDim is %d", name, got, m.StateDim())
		}
	}
}

func TestRobertsonConservesMass(t *testing.T) {
	r := NewRobertson()
	d := r.Derive(dynamo.State{0.7, 1e-5, 0.3}, 0)
	if sum := d[0] + d[1] + d[2]; math.Abs(sum) > 1e-12 {
		t.Errorf("sum of rates = %g, want 0", sum)
	}
}

func TestSetParam(t *testing.T) {
	tests := []struct {
		name  string
		sys   dynamo.Configurable
		param string
		value float64
		err   error
	}{
		{"vanderpol mu", NewVanDerPol(), "mu", 5, nil},
		{"vanderpol negative mu", NewVanDerPol(), "mu", -1, dynamo.ErrParameterBounds},
		{"vanderpol unknown", NewVanDerPol(), "nu", 1, dynamo.ErrUnknownParam},
		{"lorenz rho", NewLorenz(), "rho", 15, nil},
		{"lorenz unknown", NewLorenz(), "gamma", 1, dynamo.ErrUnknownParam},
		{"robertson k2", NewRobertson(), "k2", 1e6, nil},
		{"robertson negative", NewRobertson(), "k1", -1, dynamo.ErrParameterBounds},
		{"robertson unknown negative", NewRobertson(), "k4", -1, dynamo.ErrUnknownParam},
		{"duffing gamma", NewDuffing(), "gamma", 0.35, nil},
		{"duffing negative delta", NewDuffing(), "delta", -0.1, dynamo.ErrParameterBounds},
		{"rossler c", NewRossler(), "c", 9, nil},
		{"rossler unknown", NewRossler(), "d", 1, dynamo.ErrUnknownParam},
		{"pendulum damping", NewPendulum(), "damping", 0.5, nil},
		{"pendulum zero length", NewPendulum(), "length", 0, dynamo.ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sys.SetParam(tt.param, tt.value)
			if !errors.Is(err, tt.err) {
				t.Fatalf("SetParam(%s, %g) = %v, want %v", tt.param, tt.value, err, tt.err)
			}
			if err == nil && tt.sys.Params()[tt.param] != tt.value {
				t.Errorf("Params()[%s] = %g, want %g", tt.param, tt.sys.Params()[tt.param], tt.value)
			}
		})
	}
}

func TestNewLinearRejectsNonSquare(t *testing.T) {
	_, err := NewLinear(mat.NewDense(2, 3, nil))
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("NewLinear(2x3) error = %v, want ErrDimensionMismatch", err)
	}
}

func TestPendulumEnergyAtRest(t *testing.T) {
	p := NewPendulum()
	if e := p.Energy(dynamo.State{0, 0}); e != 0 {
		t.Errorf("energy at rest = %g, want 0", e)
	}
	if e := p.Energy(dynamo.State{math.Pi, 0}); math.Abs(e-2*9.81) > 1e-12 {
		t.Errorf("energy inverted = %g, want %g", e, 2*9.81)
	}
}
