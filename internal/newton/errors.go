package newton

import "errors"

var (
	// ErrSingularJacobian indicates the linearized system has no unique solution.
	ErrSingularJacobian = errors.New("newton: singular jacobian")

	// ErrNotConverged indicates the iteration limit was reached.
	ErrNotConverged = errors.New("newton: iteration did not converge")

	// ErrDiverged indicates an iterate or residual became NaN or Inf.
	ErrDiverged = errors.New("newton: iterate diverged (NaN or Inf)")
)
