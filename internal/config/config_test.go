package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/newton"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "pendulum", cfg.Model)
	assert.Equal(t, "rk4", cfg.Integrator)
	assert.Greater(t, cfg.Dt, 0.0)
	assert.Greater(t, cfg.Duration, 0.0)
	assert.Equal(t, newton.DefaultTol, cfg.Newton.Tol)
	assert.Equal(t, newton.DefaultMaxIter, cfg.Newton.MaxIter)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	doc := `
model: vanderpol
integrator: backward_euler
dt: 0.05
init_state: [2, 0]
params:
  mu: 100
newton:
  tol: 1.0e-8
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "vanderpol", cfg.Model)
	assert.Equal(t, "backward_euler", cfg.Integrator)
	assert.Equal(t, 0.05, cfg.Dt)
	assert.Equal(t, DefaultDuration, cfg.Duration)
	assert.Equal(t, []float64{2, 0}, cfg.InitState)
	assert.Equal(t, 100.0, cfg.Params["mu"])
	assert.Equal(t, 1e-8, cfg.Newton.Tol)
	assert.Equal(t, newton.DefaultMaxIter, cfg.Newton.MaxIter)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("dt: -1\n"), 0644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "dt must be positive")

	garbled := filepath.Join(dir, "garbled.yaml")
	require.NoError(t, os.WriteFile(garbled, []byte("dt: [\n"), 0644))
	_, err = Load(garbled)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := GetPreset("vanderpol", "stiff")
	require.NotNil(t, cfg)

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("pendulum", "small")
	require.NotNil(t, cfg)
	assert.Equal(t, []float64{0.2, 0}, cfg.InitState)
	assert.Equal(t, newton.DefaultTol, cfg.Newton.Tol)

	cfg.InitState[0] = 99
	assert.Equal(t, 0.2, GetPreset("pendulum", "small").InitState[0], "presets must not be mutated through copies")
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("pendulum", "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "small"))
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"large", "small", "spinning"}, ListPresets("pendulum"))
	assert.Nil(t, ListPresets("nonexistent"))
}

func TestPresetsAreValid(t *testing.T) {
	for model := range Presets {
		for _, name := range ListPresets(model) {
			cfg := GetPreset(model, name)
			assert.NoError(t, cfg.Validate(), "%s/%s", model, name)
			assert.Equal(t, model, cfg.Model, "%s/%s", model, name)
		}
	}
}

func TestGetInitState(t *testing.T) {
	cfg := DefaultConfig()
	fallback := dynamo.State{0.5, 0}

	got := cfg.GetInitState(fallback)
	assert.Equal(t, fallback, got)
	got[0] = 1
	assert.Equal(t, 0.5, fallback[0])

	cfg.InitState = []float64{1, 2, 3}
	assert.Equal(t, dynamo.State{1, 2, 3}, cfg.GetInitState(fallback))
}

func TestNewtonSolver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Newton = NewtonConfig{Tol: 1e-6, MaxIter: 7}

	s := cfg.NewtonSolver()
	assert.Equal(t, 1e-6, s.Tol)
	assert.Equal(t, 7, s.MaxIter)

	sc := cfg.SimConfig()
	assert.Equal(t, cfg.Dt, sc.Dt)
	assert.Equal(t, cfg.Duration, sc.Duration)
	assert.True(t, sc.ValidateState)
}
