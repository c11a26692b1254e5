package data

import "math"

// Dataset is a labelled feature matrix: X has one row per sample, Y one
// integer class label per row.
type Dataset struct {
	X            [][]float64
	Y            []int
	FeatureNames []string
}

func (ds *Dataset) Len() int { return len(ds.X) }

// Dims returns the number of features, or 0 for an empty dataset.
func (ds *Dataset) Dims() int {
	if len(ds.X) == 0 {
		return 0
	}
	return len(ds.X[0])
}

// Subset returns the rows at idx. Rows are shared, not copied.
func (ds *Dataset) Subset(idx []int) *Dataset {
	out := &Dataset{
		X:            make([][]float64, len(idx)),
		Y:            make([]int, len(idx)),
		FeatureNames: ds.FeatureNames,
	}
	for i, j := range idx {
		out.X[i] = ds.X[j]
		out.Y[i] = ds.Y[j]
	}
	return out
}

// Head returns the first n rows.
func (ds *Dataset) Head(n int) *Dataset {
	if n > ds.Len() {
		n = ds.Len()
	}
	return &Dataset{X: ds.X[:n], Y: ds.Y[:n], FeatureNames: ds.FeatureNames}
}

// Bounds returns the per-feature minimum and maximum.
func (ds *Dataset) Bounds() (mins, maxs []float64) {
	d := ds.Dims()
	mins = make([]float64, d)
	maxs = make([]float64, d)
	for j := 0; j < d; j++ {
		mins[j], maxs[j] = math.Inf(1), math.Inf(-1)
	}
	for _, row := range ds.X {
		for j, v := range row {
			mins[j] = math.Min(mins[j], v)
			maxs[j] = math.Max(maxs[j], v)
		}
	}
	return mins, maxs
}

// Names returns FeatureNames, or f0..f{d-1} when they are missing.
func (ds *Dataset) Names() []string {
	if len(ds.FeatureNames) == ds.Dims() {
		return ds.FeatureNames
	}
	return DefaultNames(ds.Dims())
}
