package models

import (
	"math"

	"github.com/cockroachdb/errors"
)

// QDA is a quadratic discriminant classifier: each class gets its own mean
// and its own covariance, estimated from that class's rows only and
// normalized by the class count. No shrinkage is applied.
type QDA struct {
	Classes []int
	Mus     [][]float64
	Pis     []float64
	Ss      [][][]float64
}

func NewQDA() *QDA { return &QDA{} }

func (m *QDA) Name() string { return "QDA" }

func (m *QDA) Labels() []int { return m.Classes }

// Fit estimates classes, means, priors and one covariance per class. A class
// with too few rows yields a singular covariance; Fit does not check.
func (m *QDA) Fit(X [][]float64, y []int) error {
	if _, _, err := checkTrainingSet(X, y); err != nil {
		return err
	}
	st := fitClassStats(X, y)
	ss := make([][][]float64, len(st.classes))
	for k := range st.classes {
		ss[k] = scatter(X, st.members[k], st.mus[k])
	}

	m.Classes = st.classes
	m.Mus = st.mus
	m.Pis = st.pis
	m.Ss = ss
	return nil
}

// DiscriminantFunction returns an n×K matrix with one column per class:
//
//	log(pi) − 0.5·log(det S_k) − 0.5·(x−mu_k)ᵀ S_k⁻¹ (x−mu_k)
func (m *QDA) DiscriminantFunction(X [][]float64) ([][]float64, error) {
	if m.Ss == nil {
		return nil, ErrNotFitted
	}
	if err := checkScoringInput(X, len(m.Mus[0])); err != nil {
		return nil, err
	}
	out := newScoreMatrix(len(X), len(m.Classes))
	for k := range m.Classes {
		inv, det, err := InvertCovariance(m.Ss[k])
		if err != nil {
			return nil, errors.Wrapf(err, "class %d", m.Classes[k])
		}
		norm := -0.5 * math.Log(det)
		logPi := math.Log(m.Pis[k])
		for i, q := range quadForms(X, m.Mus[k], inv) {
			out[i][k] = logPi + norm - 0.5*q
		}
	}
	return out, nil
}

func (m *QDA) Scores(X [][]float64) ([][]float64, error) { return m.DiscriminantFunction(X) }

// Predict returns the arg-max column index of the discriminant per row.
func (m *QDA) Predict(X [][]float64) ([]int, error) {
	scores, err := m.DiscriminantFunction(X)
	if err != nil {
		return nil, err
	}
	return ArgmaxRows(scores), nil
}

func (m *QDA) PredictProba(X [][]float64) ([][]float64, error) {
	scores, err := m.DiscriminantFunction(X)
	if err != nil {
		return nil, err
	}
	return SoftmaxRows(scores), nil
}
