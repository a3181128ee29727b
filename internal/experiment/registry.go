package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/integrators"
	"github.com/san-kum/odekit/internal/metrics"
	"github.com/san-kum/odekit/internal/newton"
	"github.com/san-kum/odekit/internal/physics"
)

// Model is what every registered system provides.
type Model interface {
	dynamo.System
	DefaultState() dynamo.State
}

type Registry struct {
	models      map[string]func() Model
	integrators map[string]func(*newton.Solver) dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func() Model),
		integrators: make(map[string]func(*newton.Solver) dynamo.Integrator),
	}

	r.models["pendulum"] = func() Model { return physics.NewPendulum() }
	r.models["vanderpol"] = func() Model { return physics.NewVanDerPol() }
	r.models["lorenz"] = func() Model { return physics.NewLorenz() }
	r.models["rossler"] = func() Model { return physics.NewRossler() }
	r.models["duffing"] = func() Model { return physics.NewDuffing() }
	r.models["robertson"] = func() Model { return physics.NewRobertson() }
	r.models["oscillator"] = func() Model { return physics.NewDampedOscillator(1, 0.05) }

	r.integrators["euler"] = func(*newton.Solver) dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func(*newton.Solver) dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func(*newton.Solver) dynamo.Integrator { return integrators.NewRK45() }
	r.integrators["backward_euler"] = func(s *newton.Solver) dynamo.Integrator { return integrators.NewBackwardEuler(s) }
	r.integrators["trapezoidal"] = func(s *newton.Solver) dynamo.Integrator { return integrators.NewTrapezoidal(s) }

	return r
}

func (r *Registry) GetModel(name string) (Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(), nil
}

// GetIntegrator builds a named integrator. Implicit integrators use solver,
// or newton.New() when solver is nil.
func (r *Registry) GetIntegrator(name string, solver *newton.Solver) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	if solver == nil {
		solver = newton.New()
	}
	return fn(solver), nil
}

// Configure builds a model and applies parameter overrides.
func (r *Registry) Configure(name string, params map[string]float64) (Model, error) {
	m, err := r.GetModel(name)
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return m, nil
	}

	tunable, ok := m.(dynamo.Configurable)
	if !ok {
		return nil, fmt.Errorf("model %s is not tunable", name)
	}
	for _, k := range sortedKeys(params) {
		if err := tunable.SetParam(k, params[k]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (r *Registry) ListModels() []string {
	return sortedKeys(r.models)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func (r *Registry) DefaultMetrics(m Model) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergyDrift(m),
		metrics.NewStability(1e6),
		metrics.NewMaxNorm(),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
