package report

import (
	"strconv"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odekit/internal/dynamo"
)

const (
	plotHeight = 10
	plotWidth  = 80
	maxPlots   = 6
)

// Component extracts column i of a trajectory.
func Component(states []dynamo.State, i int) []float64 {
	data := make([]float64, len(states))
	for k, s := range states {
		if i < len(s) {
			data[k] = s[i]
		}
	}
	return data
}

func PlotSeries(data []float64, caption string) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
}

// PlotTrajectory renders one graph per component, up to six.
func PlotTrajectory(states []dynamo.State, captions []string) []string {
	if len(states) == 0 {
		return nil
	}

	n := min(len(states[0]), maxPlots)
	graphs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		caption := "x" + strconv.Itoa(i) + " vs time"
		if i < len(captions) {
			caption = captions[i]
		}
		graphs = append(graphs, PlotSeries(Component(states, i), caption))
	}
	return graphs
}
