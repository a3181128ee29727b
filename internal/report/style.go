package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
	Label  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	Value  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	Warn   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	Bad    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
)

func Section(w io.Writer, title string) {
	fmt.Fprintln(w, Header.Render(title))
}

// KV writes one "label: value" line.
func KV(w io.Writer, label string, value any) {
	var s string
	switch v := value.(type) {
	case float64:
		s = FormatFloat(v)
	default:
		s = fmt.Sprint(v)
	}
	fmt.Fprintf(w, "%s %s\n", Label.Render(label+":"), Value.Render(s))
}

// Metrics writes metric values sorted by name.
func Metrics(w io.Writer, values map[string]float64) {
	names := make([]string, 0, len(values))
	width := 0
	for name := range values {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	for _, name := range names {
		pad := strings.Repeat(" ", width-len(name))
		KV(w, "  "+name+pad, values[name])
	}
}
