package boundary

// Scorer ranks classes for a batch of points, one column per class.
type Scorer interface {
	Scores(X [][]float64) ([][]float64, error)
}

// IsoField holds class scores for every point of a grid. The zero level of
// Pair(i, j) is the decision boundary between classes i and j.
type IsoField struct {
	Points [][]float64
	Scores [][]float64
}

// NewIsoField scores all grid points in a single call.
func NewIsoField(s Scorer, g *Grid) (*IsoField, error) {
	pts := g.Points()
	scores, err := s.Scores(pts)
	if err != nil {
		return nil, err
	}
	return &IsoField{Points: pts, Scores: scores}, nil
}

// Pair returns scores[:, i] − scores[:, j].
func (f *IsoField) Pair(i, j int) []float64 {
	out := make([]float64, len(f.Scores))
	for n, row := range f.Scores {
		out[n] = row[i] - row[j]
	}
	return out
}
