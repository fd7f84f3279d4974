package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/blocksim/internal/diagram"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// Chart renders one asciigraph per signal. Long series are decimated to width
// points so the chart fits the terminal.
func Chart(result *diagram.Result, names []string, width, height int) (string, error) {
	if len(names) == 0 {
		names = result.Names
	}

	var b strings.Builder
	for _, name := range names {
		series, ok := result.Series[name]
		if !ok {
			return "", fmt.Errorf("tui: unknown signal %q", name)
		}
		if len(series) == 0 {
			continue
		}

		caption := name
		if n := len(result.Times); n > 0 {
			caption = fmt.Sprintf("%s  (t = %g … %g)", name, result.Times[0], result.Times[n-1])
		}

		graph := asciigraph.Plot(decimate(series, width),
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(caption),
		)
		b.WriteString(graph)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

func decimate(data []float64, width int) []float64 {
	if width <= 0 || len(data) <= width {
		return data
	}
	out := make([]float64, width)
	step := float64(len(data)-1) / float64(width-1)
	for i := range out {
		out[i] = data[int(float64(i)*step+0.5)]
	}
	return out
}
