// Package plot charts the best gene quality of a layout run per generation.
package plot

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Chart size.
const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// History renders history (one best quality per generation, starting with
// the initial population) as a line chart. format is "png" or "svg".
func History(title string, history []uint64, format string) ([]byte, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("plot: empty quality history")
	}
	switch format {
	case "png", "svg":
	default:
		return nil, fmt.Errorf("plot: unsupported format %q", format)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Best quality"

	pts := make(plotter.XYs, len(history))
	for i, q := range history {
		pts[i].X = float64(i)
		pts[i].Y = float64(q)
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("plot: %w", err)
	}
	p.Add(line, plotter.NewGrid())
	p.Legend.Add("best", line)
	p.Legend.Top = true
	p.Legend.Left = true

	w, err := p.WriterTo(Width, Height, format)
	if err != nil {
		return nil, fmt.Errorf("plot: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("plot: %w", err)
	}
	return buf.Bytes(), nil
}
