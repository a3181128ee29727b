package numdiff

import (
	"testing"

	"github.com/san-kum/odekit/internal/dynamo"
)

func benchmarkJacobian(b *testing.B, n int) {
	chain := func(x dynamo.State) dynamo.State {
		y := make(dynamo.State, len(x))
		for i := range x {
			y[i] = -x[i] * x[i]
			if i > 0 {
				y[i] += x[i-1]
			}
		}
		return y
	}
	x := make(dynamo.State, n)
	for i := range x {
		x[i] = float64(i) * 0.1
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Jacobian(chain, x)
	}
}

func BenchmarkJacobian4(b *testing.B)   { benchmarkJacobian(b, 4) }
func BenchmarkJacobian32(b *testing.B)  { benchmarkJacobian(b, 32) }
func BenchmarkJacobian128(b *testing.B) { benchmarkJacobian(b, 128) }

func BenchmarkDerivative(b *testing.B) {
	f := func(x float64) float64 { return x * x * x }
	for i := 0; i < b.N; i++ {
		Derivative(f, 1.5)
	}
}
