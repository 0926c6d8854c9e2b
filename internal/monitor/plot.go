package monitor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when there is nothing to render.
var ErrNoData = errors.New("no training data recorded")

// SavePlot writes one error curve per hand count to path. The image
// format follows the file extension (.png, .svg, .pdf).
func (r *TrainingRecorder) SavePlot(path string) error {
	hands, curves := r.snapshot()
	if len(hands) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Training error"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Mean squared error"
	p.Y.Min = 0

	for i, hand := range hands {
		pts := make(plotter.XYs, len(curves[hand]))
		for j, s := range curves[hand] {
			pts[j] = plotter.XY{X: float64(s.Iteration), Y: s.Error}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("%s: %w", handLabel(hand), err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(handLabel(hand), line)
	}
	p.Legend.Top = true
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	p.Add(plotter.NewGrid())

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
