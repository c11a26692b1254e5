package render

import (
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one named line of a learning curve, aligned with its sizes.
type Series struct {
	Name   string
	Values []float64
}

// LearningCurve plots each series against the training sizes.
func LearningCurve(path, title string, sizes []int, series ...Series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Training samples"
	p.Y.Label.Text = "Accuracy"
	p.Y.Min = 0
	p.Y.Max = 1

	toXY := func(xs []int, ys []float64) plotter.XYs {
		pts := make(plotter.XYs, len(xs))
		for i := range xs {
			pts[i].X = float64(xs[i])
			pts[i].Y = ys[i]
		}
		return pts
	}
	vs := make([]any, 0, 2*len(series))
	for _, s := range series {
		vs = append(vs, s.Name, toXY(sizes, s.Values))
	}
	if err := plotutil.AddLinePoints(p, vs...); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
