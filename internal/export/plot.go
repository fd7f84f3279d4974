// Package export renders simulation results as image files.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/blocksim/internal/diagram"
)

const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// NewPlot draws one line per signal against time. With no names every
// recorded signal is drawn.
func NewPlot(title string, result *diagram.Result, names []string) (*plot.Plot, error) {
	if result == nil || result.Len() == 0 {
		return nil, fmt.Errorf("export: empty result")
	}
	if len(names) == 0 {
		names = result.Names
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t"
	p.Y.Label.Text = "value"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, name := range names {
		series, ok := result.Series[name]
		if !ok {
			return nil, fmt.Errorf("export: unknown signal %q", name)
		}

		pts := make(plotter.XYs, len(series))
		for j, v := range series {
			pts[j].X = result.Times[j]
			pts[j].Y = v
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("export: %s: %w", name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)

		p.Add(line)
		p.Legend.Add(name, line)
	}

	return p, nil
}

// Save writes the plot of names to path. The image format follows the file
// extension: .png, .svg or .pdf.
func Save(path, title string, result *diagram.Result, names []string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".svg", ".pdf":
	default:
		return fmt.Errorf("export: unsupported image format %q", ext)
	}

	p, err := NewPlot(title, result, names)
	if err != nil {
		return err
	}
	return p.Save(DefaultWidth, DefaultHeight, path)
}
