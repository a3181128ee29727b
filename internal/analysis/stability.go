package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/newton"
	"github.com/san-kum/odekit/internal/numdiff"
)

// ClassifyTol is the band around zero in which a real part counts as zero.
const ClassifyTol = 1e-6

var ErrEigen = errors.New("analysis: eigendecomposition failed")

type Stability int

const (
	Stable Stability = iota
	Marginal
	Unstable
)

func (s Stability) String() string {
	switch s {
	case Stable:
		return "stable"
	case Marginal:
		return "marginal"
	case Unstable:
		return "unstable"
	}
	return fmt.Sprintf("Stability(%d)", int(s))
}

// Equilibrium is a fixed point of a system together with its linearization.
type Equilibrium struct {
	State       dynamo.State
	Jacobian    *mat.Dense
	Eigenvalues []complex128
	Stability   Stability
}

// Linearize returns the finite-difference Jacobian of sys at (x, t).
func Linearize(sys dynamo.System, x dynamo.State, t float64) *mat.Dense {
	return numdiff.SystemJacobian(dynamo.AsRHS(sys), t, x)
}

// Eigenvalues returns the eigenvalues of the square matrix a sorted by
// descending real part.
func Eigenvalues(a mat.Matrix) ([]complex128, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenNone); !ok {
		return nil, ErrEigen
	}
	vals := eig.Values(nil)
	sort.Slice(vals, func(i, j int) bool { return real(vals[i]) > real(vals[j]) })
	return vals, nil
}

// Classify labels a spectrum: Unstable if any real part exceeds tol, Stable
// if all are below -tol, Marginal otherwise.
func Classify(eigenvalues []complex128, tol float64) Stability {
	result := Stable
	for _, ev := range eigenvalues {
		re := real(ev)
		switch {
		case re > tol || math.IsNaN(re):
			return Unstable
		case re >= -tol:
			result = Marginal
		}
	}
	return result
}

// Analyze linearizes sys at x and classifies the result. x is assumed to
// be an equilibrium; use FindEquilibrium to locate one.
func Analyze(sys dynamo.System, x dynamo.State, t float64) (*Equilibrium, error) {
	jac := Linearize(sys, x, t)
	vals, err := Eigenvalues(jac)
	if err != nil {
		return nil, fmt.Errorf("at %v: %w", x, err)
	}
	return &Equilibrium{
		State:       x.Clone(),
		Jacobian:    jac,
		Eigenvalues: vals,
		Stability:   Classify(vals, ClassifyTol),
	}, nil
}

// FindEquilibrium solves f(x, t) = 0 from guess and analyzes the root.
// A nil solver uses newton.New().
func FindEquilibrium(sys dynamo.System, guess dynamo.State, t float64, solver *newton.Solver) (*Equilibrium, error) {
	if solver == nil {
		solver = newton.New()
	}
	if len(guess) != sys.StateDim() {
		return nil, fmt.Errorf("guess has %d entries, system has %d: %w", len(guess), sys.StateDim(), dynamo.ErrDimensionMismatch)
	}

	x, _, err := solver.Solve(func(y dynamo.State) dynamo.State { return sys.Derive(y, t) }, guess)
	if err != nil {
		return nil, fmt.Errorf("equilibrium search from %v: %w", guess, err)
	}
	return Analyze(sys, x, t)
}

// CheckJacobian compares the finite-difference Jacobian with the analytic
// one. ok is false when sys is not dynamo.Linearizable.
func CheckJacobian(sys dynamo.System, x dynamo.State, t float64) (maxAbsErr float64, ok bool) {
	lin, ok := sys.(dynamo.Linearizable)
	if !ok {
		return 0, false
	}

	var diff mat.Dense
	diff.Sub(Linearize(sys, x, t), lin.Jacobian(x, t))
	return math.Max(mat.Max(&diff), -mat.Min(&diff)), true
}
