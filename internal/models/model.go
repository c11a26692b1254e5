package models

//go:generate mockgen -destination=mocks/mock_model.go -package=mocks discriminant/internal/models Model

// Model is a fitted-in-one-shot classifier that ranks classes by a per-class
// score. Predict returns column indices into Labels, not the labels.
type Model interface {
	Fit(X [][]float64, y []int) error
	Scores(X [][]float64) ([][]float64, error)
	Predict(X [][]float64) ([]int, error)
	PredictProba(X [][]float64) ([][]float64, error)
	Labels() []int
	Name() string
}

// PredictLabels maps the predicted column indices of m through its labels.
func PredictLabels(m Model, X [][]float64) ([]int, error) {
	idx, err := m.Predict(X)
	if err != nil {
		return nil, err
	}
	labels := m.Labels()
	out := make([]int, len(idx))
	for i, k := range idx {
		out[i] = labels[k]
	}
	return out, nil
}
