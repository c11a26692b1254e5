package render

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"discriminant/internal/boundary"
	"discriminant/internal/data"
	"discriminant/internal/models"
)

// Options controls a boundary slice render.
type Options struct {
	Title    string
	GridSize int

	// Fixed holds the values of features 2, 3, ... on the rendered slice.
	// Missing or NaN entries default to the column mean.
	Fixed []float64

	Width, Height vg.Length
}

func DefaultOptions() Options {
	return Options{GridSize: 60, Width: 6 * vg.Inch, Height: 6 * vg.Inch}
}

// sliceField is a pairwise score difference over the (feature 0, feature 1)
// mesh, z[c][r] at (xs[c], ys[r]).
type sliceField struct {
	xs, ys []float64
	z      [][]float64
}

func (f sliceField) Dims() (c, r int)   { return len(f.xs), len(f.ys) }
func (f sliceField) Z(c, r int) float64 { return f.z[c][r] }
func (f sliceField) X(c int) float64    { return f.xs[c] }
func (f sliceField) Y(r int) float64    { return f.ys[r] }

// SliceValues returns the full feature vector suffix used for features
// 2..d-1 of a slice.
func SliceValues(ds *data.Dataset, fixed []float64) []float64 {
	d := ds.Dims()
	if d <= 2 {
		return nil
	}
	out := make([]float64, d-2)
	col := make([]float64, ds.Len())
	for j := 2; j < d; j++ {
		if k := j - 2; k < len(fixed) && !math.IsNaN(fixed[k]) {
			out[k] = fixed[k]
			continue
		}
		for i, row := range ds.X {
			col[i] = row[j]
		}
		out[j-2] = stat.Mean(col, nil)
	}
	return out
}

// Slice renders ds on features 0 and 1 together with the decision
// boundaries of m on the slice where the remaining features are fixed.
// LDA boundaries are drawn from their closed-form planes; every other model
// gets the zero contour of each pairwise score difference.
func Slice(path string, m models.Model, ds *data.Dataset, opt Options) error {
	if ds.Dims() < 2 {
		return errors.Newf("render: need at least 2 features, got %d", ds.Dims())
	}
	if opt.GridSize < 2 {
		opt.GridSize = DefaultOptions().GridSize
	}
	names := ds.Names()
	fixed := SliceValues(ds, opt.Fixed)

	mins, maxs := ds.Bounds()
	grid, err := boundary.NewGridBounds(mins[:2], maxs[:2], opt.GridSize, boundary.DefaultMargin)
	if err != nil {
		return err
	}
	xs, ys := grid.Axes[0], grid.Axes[1]

	p := plot.New()
	p.Title.Text = opt.Title
	if p.Title.Text == "" {
		p.Title.Text = m.Name() + " decision boundaries"
	}
	p.X.Label.Text = names[0]
	p.Y.Label.Text = names[1]
	p.X.Min, p.X.Max = xs[0], xs[len(xs)-1]
	p.Y.Min, p.Y.Max = ys[0], ys[len(ys)-1]

	if lda, ok := m.(*models.LDA); ok {
		if err := addPlaneLines(p, lda, fixed, xs); err != nil {
			return err
		}
	} else if err := addContours(p, m, fixed, xs, ys); err != nil {
		return err
	}

	for k, label := range m.Labels() {
		var pts plotter.XYs
		for i, row := range ds.X {
			if ds.Y[i] == label {
				pts = append(pts, plotter.XY{X: row[0], Y: row[1]})
			}
		}
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = plotutil.Color(k)
		s.GlyphStyle.Shape = plotutil.Shape(k)
		s.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("class %d", label), s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(opt.Width, opt.Height, path)
}

func addContours(p *plot.Plot, m models.Model, fixed, xs, ys []float64) error {
	pts := make([][]float64, 0, len(xs)*len(ys))
	for _, x := range xs {
		for _, y := range ys {
			pts = append(pts, append([]float64{x, y}, fixed...))
		}
	}
	scores, err := m.Scores(pts)
	if err != nil {
		return errors.Wrap(err, "render: scoring grid")
	}
	for n, pr := range boundary.Pairs(len(m.Labels())) {
		f := sliceField{xs: xs, ys: ys, z: make([][]float64, len(xs))}
		for c := range xs {
			f.z[c] = make([]float64, len(ys))
			for r := range ys {
				s := scores[c*len(ys)+r]
				f.z[c][r] = s[pr[0]] - s[pr[1]]
			}
		}
		ct := plotter.NewContour(f, []float64{0}, nil)
		ct.LineStyles[0].Color = plotutil.Color(n)
		ct.LineStyles[0].Width = vg.Points(1.5)
		p.Add(ct)
	}
	return nil
}

// addPlaneLines draws W·[x, y, fixed...] + B = 0 solved for y.
func addPlaneLines(p *plot.Plot, m *models.LDA, fixed, xs []float64) error {
	planes, err := boundary.LDAPlanes(m)
	if err != nil {
		return errors.Wrap(err, "render: LDA planes")
	}
	for n, pl := range planes {
		if math.Abs(pl.W[1]) < boundary.VerticalTol {
			continue
		}
		offset := pl.B
		for k, v := range fixed {
			offset += pl.W[k+2] * v
		}
		w0, w1 := pl.W[0], pl.W[1]
		fn := plotter.NewFunction(func(x float64) float64 { return -(w0*x + offset) / w1 })
		fn.XMin, fn.XMax = xs[0], xs[len(xs)-1]
		fn.Color = plotutil.Color(n)
		fn.Width = vg.Points(1.5)
		fn.Dashes = plotutil.Dashes(1)
		p.Add(fn)
		p.Legend.Add(fmt.Sprintf("%d vs %d", m.Classes[pl.I], m.Classes[pl.J]), fn)
	}
	return nil
}
