package sweep

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Chart size.
const (
	ChartWidth  = 6 * vg.Inch
	ChartHeight = 4 * vg.Inch
)

// Chart draws one line per output against the swept parameter.
func Chart(r *Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Sweep of " + r.Parameter
	p.X.Label.Text = r.Parameter
	p.Y.Label.Text = "Output"
	p.Add(plotter.NewGrid())

	lines := 0
	for i, name := range r.Outputs {
		xs, ys := r.Series(name)
		if len(xs) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(xs))
		for j := range xs {
			pts[j].X, pts[j].Y = xs[j], ys[j]
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("plotting %q: %w", name, err)
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		p.Add(line, points)
		p.Legend.Add(name, line, points)
		lines++
	}
	if lines == 0 {
		return nil, fmt.Errorf("sweep of %q has no constant outputs to plot", r.Parameter)
	}
	return p, nil
}

// Plot saves the chart of r to path. The image format follows the file
// extension (png, svg, pdf, ...).
func Plot(r *Result, path string) error {
	p, err := Chart(r)
	if err != nil {
		return err
	}
	if err := p.Save(ChartWidth, ChartHeight, path); err != nil {
		return fmt.Errorf("saving sweep chart %s: %w", path, err)
	}
	return nil
}
