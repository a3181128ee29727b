package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/integrators"
)

type testDynamics struct{}

func (t *testDynamics) Derive(x dynamo.State, time float64) dynamo.State {
	return dynamo.State{-x[0]}
}

func (t *testDynamics) StateDim() int { return 1 }

// blowup returns NaN once x exceeds 10.
type blowup struct{}

func (b *blowup) StateDim() int { return 1 }

func (b *blowup) Derive(x dynamo.State, _ float64) dynamo.State {
	if x[0] > 10 {
		return dynamo.State{math.NaN()}
	}
	return dynamo.State{x[0]}
}

func TestSimulatorRun(t *testing.T) {
	sim := New(&testDynamics{}, integrators.NewEuler())

	cfg := dynamo.Config{
		Dt:       0.1,
		Duration: 1.0,
	}

	result, err := sim.Run(context.Background(), dynamo.State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}

	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}

	if got := result.Times[10]; math.Abs(got-1.0) > 1e-12 {
		t.Errorf("final time = %v, want 1", got)
	}

	finalState := result.Final()[0]
	expected := math.Pow(0.9, 10)
	if math.Abs(finalState-expected) > 1e-12 {
		t.Errorf("expected final state %.6f, got %.6f", expected, finalState)
	}
}

func TestSimulatorImplicitRecordsNewtonWork(t *testing.T) {
	sim := New(&testDynamics{}, integrators.NewBackwardEuler(nil))

	result, err := sim.Run(context.Background(), dynamo.State{1.0}, dynamo.Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatal(err)
	}
	if result.NewtonIterations < result.StepsTaken {
		t.Errorf("%d Newton iterations for %d steps", result.NewtonIterations, result.StepsTaken)
	}
	if want := math.Pow(1/1.1, 10); math.Abs(result.Final()[0]-want) > 1e-8 {
		t.Errorf("final state %g, want %g", result.Final()[0], want)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(&testDynamics{}, integrators.NewEuler())

	tests := []struct {
		name string
		x0   dynamo.State
		cfg  dynamo.Config
		err  error
	}{
		{"zero dt", dynamo.State{1}, dynamo.Config{Dt: 0, Duration: 1.0}, nil},
		{"negative dt", dynamo.State{1}, dynamo.Config{Dt: -0.1, Duration: 1.0}, nil},
		{"zero duration", dynamo.State{1}, dynamo.Config{Dt: 0.1, Duration: 0}, nil},
		{"wrong dimension", dynamo.State{1, 2}, dynamo.Config{Dt: 0.1, Duration: 1}, dynamo.ErrDimensionMismatch},
		{"nan start", dynamo.State{math.NaN()}, dynamo.Config{Dt: 0.1, Duration: 1}, dynamo.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.x0, tt.cfg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("err = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestSimulatorStopsOnInvalidState(t *testing.T) {
	sim := New(&blowup{}, integrators.NewEuler())
	cfg := dynamo.DefaultConfig()
	cfg.Dt = 0.5

	result, err := sim.Run(context.Background(), dynamo.State{1}, cfg)

	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) || !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("err = %v, want SimulationError wrapping ErrInvalidState", err)
	}
	if result == nil || result.StepsTaken != simErr.Step {
		t.Errorf("partial result should hold the %d completed steps", simErr.Step)
	}
	for _, x := range result.States {
		if !x.IsValid() {
			t.Errorf("invalid state recorded: %v", x)
		}
	}
}

func TestSimulatorContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := New(&testDynamics{}, integrators.NewRK4())
	result, err := sim.Run(ctx, dynamo.State{1}, dynamo.DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("took %d steps after cancellation", result.StepsTaken)
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(x dynamo.State, time float64) {
	t.count++
	t.sum += x[0]
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(&testDynamics{}, integrators.NewEuler())

	metric := &testMetric{}
	sim.AddMetric(metric)

	cfg := dynamo.Config{Dt: 0.1, Duration: 1.0}

	result, err := sim.Run(context.Background(), dynamo.State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}

	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

func TestEnsemble(t *testing.T) {
	ens := NewEnsemble(&testDynamics{}, func() dynamo.Integrator { return integrators.NewRK4() })
	initial := []dynamo.State{{1}, {2}, {-3}}

	results, err := ens.Run(context.Background(), initial, dynamo.Config{Dt: 0.01, Duration: 1})
	if err != nil {
		t.Fatal(err)
	}

	for i, r := range results {
		want := initial[i][0] * math.Exp(-1)
		if got := r.Final()[0]; math.Abs(got-want) > 1e-8 {
			t.Errorf("run %d: final %g, want %g", i, got, want)
		}
	}
}
