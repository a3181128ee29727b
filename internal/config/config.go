package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/newton"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
)

type Config struct {
	Model      string             `yaml:"model"`
	Integrator string             `yaml:"integrator"`
	Dt         float64            `yaml:"dt"`
	Duration   float64            `yaml:"duration"`
	InitState  []float64          `yaml:"init_state,omitempty"`
	Params     map[string]float64 `yaml:"params,omitempty"`
	Newton     NewtonConfig       `yaml:"newton"`
}

// NewtonConfig tunes the solver behind the implicit integrators.
type NewtonConfig struct {
	Tol     float64 `yaml:"tol"`
	MaxIter int     `yaml:"max_iter"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "pendulum",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Newton: NewtonConfig{
			Tol:     newton.DefaultTol,
			MaxIter: newton.DefaultMaxIter,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Integrator == "" {
		return fmt.Errorf("integrator is required")
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if c.Newton.Tol <= 0 {
		return fmt.Errorf("newton.tol must be positive, got %g", c.Newton.Tol)
	}
	if c.Newton.MaxIter <= 0 {
		return fmt.Errorf("newton.max_iter must be positive, got %d", c.Newton.MaxIter)
	}
	return nil
}

// GetInitState returns the configured initial state, or fallback when
// none was given.
func (c *Config) GetInitState(fallback dynamo.State) dynamo.State {
	if len(c.InitState) == 0 {
		return fallback.Clone()
	}
	return dynamo.State(c.InitState).Clone()
}

func (c *Config) SimConfig() dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.Dt = c.Dt
	cfg.Duration = c.Duration
	return cfg
}

func (c *Config) NewtonSolver() *newton.Solver {
	s := newton.New()
	s.Tol = c.Newton.Tol
	s.MaxIter = c.Newton.MaxIter
	return s
}
