package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/odekit/internal/dynamo"
)

type ExportData struct {
	Model            string             `json:"model"`
	Integrator       string             `json:"integrator"`
	Dt               float64            `json:"dt"`
	Duration         float64            `json:"duration"`
	Params           map[string]float64 `json:"params,omitempty"`
	Steps            int                `json:"steps"`
	NewtonIterations int                `json:"newton_iterations,omitempty"`
	Times            []float64          `json:"times"`
	States           [][]float64        `json:"states"`
	Metrics          map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, run Run, result *dynamo.Result) error {
	data := ExportData{
		Model:            run.Model,
		Integrator:       run.Integrator,
		Dt:               run.Config.Dt,
		Duration:         run.Config.Duration,
		Params:           run.Params,
		Steps:            result.StepsTaken,
		NewtonIterations: result.NewtonIterations,
		Times:            result.Times,
		States:           make([][]float64, len(result.States)),
		Metrics:          result.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
