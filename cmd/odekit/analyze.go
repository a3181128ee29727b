package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/san-kum/odekit/internal/analysis"
	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/experiment"
	"github.com/san-kum/odekit/internal/integrators"
	"github.com/san-kum/odekit/internal/newton"
	"github.com/san-kum/odekit/internal/numdiff"
	"github.com/san-kum/odekit/internal/report"
)

type builtin struct {
	f, df numdiff.ScalarFunc
}

var builtins = map[string]builtin{
	"sin":  {math.Sin, math.Cos},
	"cos":  {math.Cos, func(x float64) float64 { return -math.Sin(x) }},
	"exp":  {math.Exp, math.Exp},
	"log":  {math.Log, func(x float64) float64 { return 1 / x }},
	"sqr":  {numdiff.Sqr[float64], func(x float64) float64 { return 2 * x }},
	"cube": {numdiff.Cube[float64], func(x float64) float64 { return 3 * numdiff.Sqr(x) }},
}

func builtinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseState(s string) (dynamo.State, error) {
	fields := strings.Split(s, ",")
	x := make(dynamo.State, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid state component %q: %w", f, err)
		}
		x = append(x, v)
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("empty state %q", s)
	}
	return x, nil
}

func parseParams(kvs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(kvs))
	for _, kv := range kvs {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid param %q, want name=value", kv)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", name, err)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

// modelAt builds a configured model and the state to evaluate it at.
func modelAt(model string) (experiment.Model, dynamo.State, error) {
	overrides, err := parseParams(params)
	if err != nil {
		return nil, nil, err
	}

	sys, err := experiment.NewRegistry().Configure(model, overrides)
	if err != nil {
		return nil, nil, err
	}

	x := sys.DefaultState()
	if atState != "" {
		if x, err = parseState(atState); err != nil {
			return nil, nil, err
		}
	}
	if len(x) != sys.StateDim() {
		return nil, nil, fmt.Errorf("%w: %s has dimension %d, got %d components",
			dynamo.ErrDimensionMismatch, model, sys.StateDim(), len(x))
	}
	return sys, x, nil
}

func printJacobian(cmd *cobra.Command, args []string) error {
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	sys, x, err := modelAt(args[0])
	if err != nil {
		return err
	}

	jac := analysis.Linearize(sys, x, atTime)

	report.Section(os.Stdout, fmt.Sprintf("jacobian of %s at %s", args[0], report.FormatVector(x, report.Inline)))
	fmt.Println(report.FormatMatrix(jac, f))

	if !check {
		return nil
	}

	maxErr, ok := analysis.CheckJacobian(sys, x, atTime)
	if !ok {
		fmt.Printf("\n%s has no analytic jacobian\n", args[0])
		return nil
	}
	fmt.Println()
	report.Section(os.Stdout, "analytic")
	fmt.Println(report.FormatMatrix(sys.(dynamo.Linearizable).Jacobian(x, atTime), f))
	fmt.Println()
	report.KV(os.Stdout, "max abs error", maxErr)
	return nil
}

func printDerivative(cmd *cobra.Command, args []string) error {
	fn, ok := builtins[args[0]]
	if !ok {
		return fmt.Errorf("unknown function: %s (available: %v)", args[0], builtinNames())
	}
	x, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid x %q: %w", args[1], err)
	}

	approx := numdiff.Derivative(fn.f, x)
	exact := fn.df(x)

	report.KV(os.Stdout, "f'(x) forward", approx)
	report.KV(os.Stdout, "f'(x) exact", exact)
	report.KV(os.Stdout, "abs error", math.Abs(approx-exact))
	report.KV(os.Stdout, "step", numdiff.Step)
	return nil
}

func analyzeStability(cmd *cobra.Command, args []string) error {
	model := args[0]
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	sys, guess, err := modelAt(model)
	if err != nil {
		return err
	}

	if sweep != "" {
		return sweepBranch(sys, guess)
	}

	eq, err := analysis.FindEquilibrium(sys, guess, 0, newton.New())
	if err != nil {
		return err
	}

	report.Section(os.Stdout, "equilibrium of "+model)
	report.KV(os.Stdout, "state", report.FormatVector(eq.State, report.Inline))
	report.KV(os.Stdout, "stability", stabilityStyle(eq.Stability).Render(eq.Stability.String()))
	fmt.Println()
	report.Section(os.Stdout, "jacobian")
	fmt.Println(report.FormatMatrix(eq.Jacobian, f))
	fmt.Println()
	report.Section(os.Stdout, "eigenvalues")
	for _, ev := range eq.Eigenvalues {
		fmt.Printf("  %s %+.6gi\n", report.FormatFloat(real(ev)), imag(ev))
	}

	if lyapunov {
		lambda, err := analysis.LyapunovExponent(sys, integrators.NewRK4(), guess, lyapunovDt, lyapunovTime)
		if err != nil {
			return err
		}
		fmt.Println()
		report.KV(os.Stdout, "largest lyapunov exponent", lambda)
	}
	return nil
}

func sweepBranch(sys experiment.Model, guess dynamo.State) error {
	parts := strings.Split(sweep, ":")
	if len(parts) != 4 {
		return fmt.Errorf("invalid sweep %q, want name:min:max:steps", sweep)
	}
	lo, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return fmt.Errorf("sweep min: %w", err)
	}
	hi, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return fmt.Errorf("sweep max: %w", err)
	}
	steps, err := strconv.Atoi(parts[3])
	if err != nil {
		return fmt.Errorf("sweep steps: %w", err)
	}

	branch, err := analysis.EquilibriumBranch(sys, parts[0], lo, hi, steps, guess, newton.New())
	if err != nil && len(branch) == 0 {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTATE\tSTABILITY\n", strings.ToUpper(parts[0]))
	var prev analysis.Stability = -1
	for _, p := range branch {
		marker := ""
		if prev >= 0 && p.Stability != prev {
			marker = " <- bifurcation"
		}
		prev = p.Stability
		fmt.Fprintf(w, "%s\t%s\t%s%s\n",
			report.FormatFloat(p.Param),
			report.FormatVector(p.State, report.Inline),
			p.Stability,
			marker,
		)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func stabilityStyle(s analysis.Stability) lipgloss.Style {
	switch s {
	case analysis.Stable:
		return report.Value
	case analysis.Marginal:
		return report.Warn
	}
	return report.Bad
}
