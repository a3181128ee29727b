package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/experiment"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	integrator string
	initState  string
	params     []string
	configFile string
	preset     string
	plotAfter  bool
	saveRun    bool

	atState   string
	atTime    float64
	format    string
	check     bool
	lyapunov  bool
	sweep     string
	ensembleN int
	spread    float64

	lyapunovDt   float64
	lyapunovTime float64
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "odekit",
		Short:        "finite-difference ode toolkit",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".odekit", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	runCmd.Flags().StringVar(&initState, "x", "", "initial state, comma separated")
	runCmd.Flags().StringArrayVar(&params, "param", nil, "model parameter override name=value (repeatable)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().BoolVar(&plotAfter, "plot", false, "plot the trajectory when done")
	runCmd.Flags().BoolVar(&saveRun, "save", true, "store the run under --data")

	jacobianCmd := &cobra.Command{
		Use:   "jacobian [model]",
		Short: "finite-difference jacobian of a model",
		Args:  cobra.ExactArgs(1),
		RunE:  printJacobian,
	}
	jacobianCmd.Flags().StringVar(&atState, "x", "", "evaluation state, comma separated (default: model default state)")
	jacobianCmd.Flags().Float64Var(&atTime, "t", 0, "evaluation time")
	jacobianCmd.Flags().StringVar(&format, "format", "default", "matrix format: default, inline or plain")
	jacobianCmd.Flags().BoolVar(&check, "check", false, "compare against the analytic jacobian")
	jacobianCmd.Flags().StringArrayVar(&params, "param", nil, "model parameter override name=value (repeatable)")

	derivativeCmd := &cobra.Command{
		Use:       "derivative [func] [x]",
		Short:     "forward-difference derivative of a builtin function",
		Args:      cobra.ExactArgs(2),
		ValidArgs: builtinNames(),
		RunE:      printDerivative,
	}

	stabilityCmd := &cobra.Command{
		Use:   "stability [model]",
		Short: "find and classify an equilibrium",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeStability,
	}
	stabilityCmd.Flags().StringVar(&atState, "x", "", "equilibrium guess, comma separated (default: model default state)")
	stabilityCmd.Flags().StringVar(&format, "format", "default", "matrix format: default, inline or plain")
	stabilityCmd.Flags().BoolVar(&lyapunov, "lyapunov", false, "estimate the largest lyapunov exponent from the guess")
	stabilityCmd.Flags().StringVar(&sweep, "sweep", "", "follow the equilibrium over name:min:max:steps")
	stabilityCmd.Flags().Float64Var(&lyapunovDt, "dt", config.DefaultDt, "timestep for --lyapunov")
	stabilityCmd.Flags().Float64Var(&lyapunovTime, "time", 50, "duration for --lyapunov")
	stabilityCmd.Flags().StringArrayVar(&params, "param", nil, "model parameter override name=value (repeatable)")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [model]",
		Short: "run perturbed copies of a model concurrently",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	ensembleCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	ensembleCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	ensembleCmd.Flags().IntVar(&ensembleN, "n", 8, "number of members")
	ensembleCmd.Flags().Float64Var(&spread, "spread", 1e-6, "initial perturbation of x0")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models and integrators",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := experiment.NewRegistry()
			fmt.Println("models:")
			for _, name := range registry.ListModels() {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("integrators:")
			for _, name := range registry.ListIntegrators() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, jacobianCmd, derivativeCmd, stabilityCmd, ensembleCmd, listCmd, plotCmd, exportCmd, modelsCmd, presetsCmd)
	return rootCmd
}
