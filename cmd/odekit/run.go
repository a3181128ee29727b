package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/experiment"
	"github.com/san-kum/odekit/internal/report"
	"github.com/san-kum/odekit/internal/sim"
	"github.com/san-kum/odekit/internal/storage"
)

// resolveConfig layers preset, config file and explicit flags, in that
// order of increasing precedence.
func resolveConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg.Model = model
		cfg = fileCfg
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("x") {
		x, err := parseState(initState)
		if err != nil {
			return nil, err
		}
		cfg.InitState = x
	}

	overrides, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 && cfg.Params == nil {
		cfg.Params = make(map[string]float64, len(overrides))
	}
	for k, v := range overrides {
		cfg.Params[k] = v
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	model := args[0]

	cfg, err := resolveConfig(cmd, model)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()

	sys, err := registry.Configure(model, cfg.Params)
	if err != nil {
		return err
	}

	integ, err := registry.GetIntegrator(cfg.Integrator, cfg.NewtonSolver())
	if err != nil {
		return err
	}

	s := sim.New(sys, integ)
	for _, m := range registry.DefaultMetrics(sys) {
		s.AddMetric(m)
	}

	fmt.Printf("running %s with %s...\n", model, integ.Name())
	start := time.Now()

	result, runErr := s.Run(context.Background(), cfg.GetInitState(sys.DefaultState()), cfg.SimConfig())
	if result == nil {
		return runErr
	}

	elapsed := time.Since(start)

	fmt.Println()
	report.Section(os.Stdout, "run")
	report.KV(os.Stdout, "elapsed", elapsed.String())
	report.KV(os.Stdout, "steps", result.StepsTaken)
	if result.NewtonIterations > 0 {
		report.KV(os.Stdout, "newton iterations", result.NewtonIterations)
	}
	report.KV(os.Stdout, "final state", report.FormatVector(result.Final(), report.Inline))

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(runFor(model, cfg, sys), result)
		if err != nil {
			return err
		}
		report.KV(os.Stdout, "run id", runID)
	}

	fmt.Println()
	report.Section(os.Stdout, "metrics")
	report.Metrics(os.Stdout, result.Metrics)

	if plotAfter {
		fmt.Println()
		for _, graph := range report.PlotTrajectory(result.States, captions(model)) {
			fmt.Println(graph)
			fmt.Println()
		}
	}

	return runErr
}

func runFor(model string, cfg *config.Config, sys experiment.Model) storage.Run {
	run := storage.Run{
		Model:      model,
		Integrator: cfg.Integrator,
		Config:     cfg.SimConfig(),
	}
	if tunable, ok := sys.(dynamo.Configurable); ok {
		run.Params = tunable.Params()
	}
	return run
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	model := args[0]
	if ensembleN <= 0 {
		return fmt.Errorf("--n must be positive")
	}

	registry := experiment.NewRegistry()
	sys, err := registry.GetModel(model)
	if err != nil {
		return err
	}
	if _, err := registry.GetIntegrator(integrator, nil); err != nil {
		return err
	}

	x0 := sys.DefaultState()
	initial := make([]dynamo.State, ensembleN)
	for i := range initial {
		initial[i] = x0.Clone()
		initial[i][0] += spread * float64(i)
	}

	ens := sim.NewEnsemble(sys, func() dynamo.Integrator {
		integ, _ := registry.GetIntegrator(integrator, nil)
		return integ
	})

	simCfg := dynamo.DefaultConfig()
	simCfg.Dt = dt
	simCfg.Duration = duration

	start := time.Now()
	results, err := ens.Run(context.Background(), initial, simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEMBER\tDELTA\tSTEPS\tFINAL\tDISTANCE")
	for i, r := range results {
		final := r.Final()
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
			i,
			report.FormatFloat(spread*float64(i)),
			r.StepsTaken,
			report.FormatVector(final, report.Inline),
			report.FormatFloat(final.Sub(results[0].Final()).Norm()),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d members in %v\n", ensembleN, elapsed)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tINTEG\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Steps,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(states))

	for _, graph := range report.PlotTrajectory(states, captions(meta.Model)) {
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	run := storage.Run{
		Model:      meta.Model,
		Integrator: meta.Integrator,
		Params:     meta.Params,
		Config:     dynamo.Config{Dt: meta.Dt, Duration: meta.Duration},
	}
	result := &dynamo.Result{
		States:           states,
		Times:            times,
		Metrics:          meta.Metrics,
		StepsTaken:       meta.Steps,
		NewtonIterations: meta.NewtonIterations,
	}
	return storage.ExportJSON(os.Stdout, run, result)
}

func captions(model string) []string {
	switch model {
	case "pendulum":
		return []string{"theta (angle)", "omega (angular velocity)"}
	case "vanderpol", "oscillator":
		return []string{"position", "velocity"}
	case "lorenz":
		return []string{"x", "y", "z"}
	case "robertson":
		return []string{"y1 (A)", "y2 (B)", "y3 (C)"}
	}
	return nil
}
