package newton_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/newton"
)

var _ = Describe("Solver", func() {
	var solver *newton.Solver

	BeforeEach(func() {
		solver = newton.New()
	})

	It("uses the documented defaults", func() {
		Expect(solver.Tol).To(Equal(newton.DefaultTol))
		Expect(solver.MaxIter).To(Equal(newton.DefaultMaxIter))
		Expect(solver.Jacobian).To(BeNil())
	})

	Context("with a scalar equation", func() {
		It("finds sqrt(2) as the root of x² − 2", func() {
			x, stats, err := solver.Solve(func(x dynamo.State) dynamo.State {
				return dynamo.State{x[0]*x[0] - 2}
			}, dynamo.State{1})

			Expect(err).NotTo(HaveOccurred())
			Expect(x[0]).To(BeNumerically("~", math.Sqrt2, 1e-9))
			Expect(stats.Iterations).To(BeNumerically("<=", 8))
			Expect(stats.Residual).To(BeNumerically("<=", 1e-9))
		})

		It("returns immediately when the guess already solves the system", func() {
			x, stats, err := solver.Solve(func(x dynamo.State) dynamo.State {
				return dynamo.State{x[0] - 3}
			}, dynamo.State{3})

			Expect(err).NotTo(HaveOccurred())
			Expect(x).To(Equal(dynamo.State{3}))
			Expect(stats.Iterations).To(BeZero())
		})
	})

	Context("with a coupled system", func() {
		circleLine := func(x dynamo.State) dynamo.State {
			return dynamo.State{
				x[0]*x[0] + x[1]*x[1] - 4,
				x[0] - x[1],
			}
		}

		It("converges to the intersection nearest the guess", func() {
			x, _, err := solver.Solve(circleLine, dynamo.State{1, 0.5})

			Expect(err).NotTo(HaveOccurred())
			Expect(x[0]).To(BeNumerically("~", math.Sqrt2, 1e-8))
			Expect(x[1]).To(BeNumerically("~", math.Sqrt2, 1e-8))
		})

		It("does not modify the initial guess", func() {
			guess := dynamo.State{1, 0.5}
			_, _, err := solver.Solve(circleLine, guess)

			Expect(err).NotTo(HaveOccurred())
			Expect(guess).To(Equal(dynamo.State{1, 0.5}))
		})

		It("solves a linear system in one step", func() {
			x, stats, err := solver.Solve(func(x dynamo.State) dynamo.State {
				return dynamo.State{2*x[0] + x[1] - 5, x[0] - x[1] - 1}
			}, dynamo.State{0, 0})

			Expect(err).NotTo(HaveOccurred())
			Expect(x[0]).To(BeNumerically("~", 2, 1e-7))
			Expect(x[1]).To(BeNumerically("~", 1, 1e-7))
			Expect(stats.Iterations).To(BeNumerically("<=", 2))
		})
	})

	Context("with an analytic Jacobian", func() {
		It("calls the override instead of differencing", func() {
			calls := 0
			solver.Jacobian = func(x dynamo.State) *mat.Dense {
				calls++
				return mat.NewDense(1, 1, []float64{3 * x[0] * x[0]})
			}

			x, stats, err := solver.Solve(func(x dynamo.State) dynamo.State {
				return dynamo.State{x[0]*x[0]*x[0] - 8}
			}, dynamo.State{3})

			Expect(err).NotTo(HaveOccurred())
			Expect(x[0]).To(BeNumerically("~", 2, 1e-9))
			Expect(calls).To(Equal(stats.Iterations))
		})
	})

	Context("when the problem is degenerate", func() {
		It("reports a singular Jacobian for a constant residual", func() {
			_, stats, err := solver.Solve(func(dynamo.State) dynamo.State {
				return dynamo.State{1, 1}
			}, dynamo.State{0, 0})

			Expect(err).To(MatchError(newton.ErrSingularJacobian))
			Expect(err).To(MatchError(mat.ErrSingular))
			Expect(stats.Iterations).To(Equal(1))
		})

		It("gives up after MaxIter iterations", func() {
			solver.MaxIter = 5

			// x² + 1 has no real root; the iterates wander without settling.
			_, stats, err := solver.Solve(func(x dynamo.State) dynamo.State {
				return dynamo.State{x[0]*x[0] + 1}
			}, dynamo.State{0.5})

			Expect(err).To(HaveOccurred())
			Expect(err).To(Or(MatchError(newton.ErrNotConverged), MatchError(newton.ErrDiverged)))
			Expect(stats.Iterations).To(BeNumerically("<=", 5))
		})

		It("detects non-finite iterates", func() {
			_, _, err := solver.Solve(func(x dynamo.State) dynamo.State {
				return dynamo.State{math.Log(x[0]) + 10}
			}, dynamo.State{1})

			Expect(err).To(MatchError(newton.ErrDiverged))
		})

		It("rejects a residual of the wrong length", func() {
			_, _, err := solver.Solve(func(dynamo.State) dynamo.State {
				return dynamo.State{1, 2, 3}
			}, dynamo.State{0, 0})

			Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		})
	})
})
