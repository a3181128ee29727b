package config

import "sort"

var Presets = map[string]map[string]*Config{
	"pendulum": {
		"small": {
			Model: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 20.0,
			InitState: []float64{0.2, 0},
		},
		"large": {
			Model: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 20.0,
			InitState: []float64{2.5, 0},
		},
		"spinning": {
			Model: "pendulum", Integrator: "rk45", Dt: 0.01, Duration: 30.0,
			InitState: []float64{0.1, 8.0},
		},
	},
	"vanderpol": {
		"limit_cycle": {
			Model: "vanderpol", Integrator: "rk4", Dt: 0.01, Duration: 30.0,
			InitState: []float64{2, 0},
		},
		"stiff": {
			Model: "vanderpol", Integrator: "backward_euler", Dt: 0.01, Duration: 3000.0,
			InitState: []float64{2, 0},
			Params:    map[string]float64{"mu": 1000},
		},
	},
	"lorenz": {
		"butterfly": {
			Model: "lorenz", Integrator: "rk4", Dt: 0.005, Duration: 50.0,
			InitState: []float64{1, 1, 1},
		},
		"convergent": {
			Model: "lorenz", Integrator: "rk4", Dt: 0.005, Duration: 20.0,
			InitState: []float64{1, 1, 1},
			Params:    map[string]float64{"rho": 0.5},
		},
	},
	"robertson": {
		"kinetics": {
			Model: "robertson", Integrator: "backward_euler", Dt: 0.001, Duration: 40.0,
			InitState: []float64{1, 0, 0},
		},
		"trapezoidal": {
			Model: "robertson", Integrator: "trapezoidal", Dt: 0.001, Duration: 40.0,
			InitState: []float64{1, 0, 0},
		},
	},
	"oscillator": {
		"ringdown": {
			Model: "oscillator", Integrator: "trapezoidal", Dt: 0.05, Duration: 60.0,
			InitState: []float64{1, 0},
		},
	},
}

// GetPreset returns a copy of the named preset with Newton defaults filled
// in, or nil when it does not exist.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	p, ok := modelPresets[preset]
	if !ok {
		return nil
	}

	cfg := *p
	cfg.InitState = append([]float64(nil), p.InitState...)
	if p.Params != nil {
		cfg.Params = make(map[string]float64, len(p.Params))
		for k, v := range p.Params {
			cfg.Params[k] = v
		}
	}
	if cfg.Newton == (NewtonConfig{}) {
		cfg.Newton = DefaultConfig().Newton
	}
	return &cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
