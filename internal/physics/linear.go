package physics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odekit/internal/dynamo"
)

// Linear is the constant-coefficient system dx/dt = A·x.
type Linear struct {
	a *mat.Dense
}

// NewLinear copies a, which must be square.
func NewLinear(a mat.Matrix) (*Linear, error) {
	r, c := a.Dims()
	if r != c || r == 0 {
		return nil, fmt.Errorf("linear: %dx%d coefficient matrix: %w", r, c, dynamo.ErrDimensionMismatch)
	}
	return &Linear{a: mat.DenseCopyOf(a)}, nil
}

// NewDampedOscillator is x'' + 2ζω x' + ω² x = 0 written as a first-order system.
func NewDampedOscillator(omega, zeta float64) *Linear {
	return &Linear{a: mat.NewDense(2, 2, []float64{
		0, 1,
		-omega * omega, -2 * zeta * omega,
	})}
}

func (l *Linear) StateDim() int {
	n, _ := l.a.Dims()
	return n
}

func (l *Linear) Derive(x dynamo.State, _ float64) dynamo.State {
	dx := mat.NewVecDense(l.StateDim(), nil)
	dx.MulVec(l.a, mat.NewVecDense(len(x), x.Clone()))
	return dynamo.State(dx.RawVector().Data)
}

func (l *Linear) Jacobian(_ dynamo.State, _ float64) *mat.Dense {
	return mat.DenseCopyOf(l.a)
}

func (l *Linear) DefaultState() dynamo.State {
	x := make(dynamo.State, l.StateDim())
	x[0] = 1
	return x
}
