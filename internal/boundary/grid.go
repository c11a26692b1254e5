package boundary

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
)

// DefaultMargin pads each axis of a grid beyond the data range.
const DefaultMargin = 1.0

// Grid is a regular mesh with one evenly spaced axis per feature.
type Grid struct {
	Axes [][]float64
}

// NewGrid spans [min−margin, max+margin] of every column of X with size
// points per axis.
func NewGrid(X [][]float64, size int, margin float64) (*Grid, error) {
	if len(X) == 0 {
		return nil, errors.New("boundary: no points to span")
	}
	d := len(X[0])
	mins := make([]float64, d)
	maxs := make([]float64, d)
	for j := 0; j < d; j++ {
		mins[j], maxs[j] = math.Inf(1), math.Inf(-1)
	}
	for i, row := range X {
		if len(row) != d {
			return nil, errors.Newf("boundary: row %d has %d features, want %d", i, len(row), d)
		}
		for j, v := range row {
			mins[j] = math.Min(mins[j], v)
			maxs[j] = math.Max(maxs[j], v)
		}
	}
	return NewGridBounds(mins, maxs, size, margin)
}

// NewGridBounds is NewGrid over explicit per-axis bounds.
func NewGridBounds(mins, maxs []float64, size int, margin float64) (*Grid, error) {
	if size < 2 {
		return nil, errors.Newf("boundary: grid size must be >= 2, got %d", size)
	}
	if len(mins) == 0 || len(mins) != len(maxs) {
		return nil, errors.Newf("boundary: %d mins and %d maxs", len(mins), len(maxs))
	}
	g := &Grid{Axes: make([][]float64, len(mins))}
	for j := range mins {
		g.Axes[j] = floats.Span(make([]float64, size), mins[j]-margin, maxs[j]+margin)
	}
	return g, nil
}

func (g *Grid) Dims() int { return len(g.Axes) }

// Len returns the number of mesh points.
func (g *Grid) Len() int {
	n := 1
	for _, a := range g.Axes {
		n *= len(a)
	}
	return n
}

// LenAtMost reports whether the mesh has at most limit points. It does not
// overflow for large dimensions.
func (g *Grid) LenAtMost(limit int) bool {
	n := 1
	for _, a := range g.Axes {
		if len(a) == 0 {
			return true
		}
		if n > limit/len(a) {
			return false
		}
		n *= len(a)
	}
	return n <= limit
}

// Points returns every mesh point with the first axis varying slowest,
// matching an ij-indexed meshgrid flattened in row-major order.
func (g *Grid) Points() [][]float64 {
	d := g.Dims()
	out := make([][]float64, 0, g.Len())
	idx := make([]int, d)
	for {
		p := make([]float64, d)
		for j, i := range idx {
			p[j] = g.Axes[j][i]
		}
		out = append(out, p)

		j := d - 1
		for ; j >= 0; j-- {
			idx[j]++
			if idx[j] < len(g.Axes[j]) {
				break
			}
			idx[j] = 0
		}
		if j < 0 {
			return out
		}
	}
}

// PlaneSurface returns z over the mesh of the first two axes for a 3-D
// plane: zz[r][c] is the height at (Axes[0][c], Axes[1][r]). It reports
// false when the plane cannot be solved for z.
func PlaneSurface(p Plane, g *Grid) ([][]float64, bool) {
	if g.Dims() < 2 {
		return nil, false
	}
	xs, ys := g.Axes[0], g.Axes[1]
	zz := make([][]float64, len(ys))
	for r, y := range ys {
		zz[r] = make([]float64, len(xs))
		for c, x := range xs {
			z, ok := p.SolveZ(x, y)
			if !ok {
				return nil, false
			}
			zz[r][c] = z
		}
	}
	return zz, true
}
