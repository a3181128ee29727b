package numdiff

import "golang.org/x/exp/constraints"

// Number is any real scalar type the helpers accept.
type Number interface {
	constraints.Integer | constraints.Float
}

// ZeroTolerance is the magnitude below which IsZero reports true.
const ZeroTolerance = 1e-16

// IsZero reports whether |v| < ZeroTolerance.
func IsZero[T constraints.Float](v T) bool {
	if v < 0 {
		v = -v
	}
	return v < T(ZeroTolerance)
}

// Sign returns the signum of v: -1, 0 or 1. NaN maps to 0.
func Sign[T Number](v T) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Sqr returns v*v.
func Sqr[T Number](v T) T {
	return v * v
}

// Cube returns v*v*v.
func Cube[T Number](v T) T {
	return v * v * v
}

// Middle returns the midpoint of [a, b].
func Middle(a, b float64) float64 {
	return 0.5 * (a + b)
}
