package models

import (
	"math"

	"github.com/cockroachdb/errors"
)

// LDA is a linear discriminant classifier: every class is modelled as a
// Gaussian with its own mean and one covariance shared by all classes.
//
// S is the covariance of all training rows about Mu, the prior-weighted
// mean of the class means, normalized by n. That makes it the total
// covariance about the grand mean, not the within-class pooled covariance.
type LDA struct {
	Classes []int
	Mus     [][]float64
	Pis     []float64
	Mu      []float64
	S       [][]float64
}

func NewLDA() *LDA { return &LDA{} }

func (m *LDA) Name() string { return "LDA" }

func (m *LDA) Labels() []int { return m.Classes }

// Fit estimates classes, means, priors and the shared covariance. It never
// inverts S, so a singular S is only reported by the scoring functions.
func (m *LDA) Fit(X [][]float64, y []int) error {
	n, _, err := checkTrainingSet(X, y)
	if err != nil {
		return err
	}
	st := fitClassStats(X, y)
	mu := weightedMean(st.mus, st.pis)

	all := make([]int, n)
	for i := range all {
		all[i] = i
	}

	m.Classes = st.classes
	m.Mus = st.mus
	m.Pis = st.pis
	m.Mu = mu
	m.S = scatter(X, all, mu)
	return nil
}

// DecisionFunction returns an n×K matrix with one column per class:
//
//	log(pi) + 1/(2π·sqrt(det S)) − 0.5·(x−mu)ᵀ S⁻¹ (x−mu)
//
// The middle term is added without taking its log. It is the same for every
// class and does not change the ranking.
func (m *LDA) DecisionFunction(X [][]float64) ([][]float64, error) {
	if m.S == nil {
		return nil, ErrNotFitted
	}
	if err := checkScoringInput(X, len(m.Mu)); err != nil {
		return nil, err
	}
	out := newScoreMatrix(len(X), len(m.Classes))
	for k := range m.Classes {
		ll, err := m.logLikelihood(X, m.Mus[k], m.Pis[k])
		if err != nil {
			return nil, errors.Wrapf(err, "class %d", m.Classes[k])
		}
		for i, v := range ll {
			out[i][k] = v
		}
	}
	return out, nil
}

// logLikelihood inverts S on every call; nothing is cached between classes.
func (m *LDA) logLikelihood(X [][]float64, mu []float64, pi float64) ([]float64, error) {
	inv, det, err := InvertCovariance(m.S)
	if err != nil {
		return nil, err
	}
	norm := 1 / (2 * math.Pi * math.Sqrt(det))
	quad := quadForms(X, mu, inv)
	out := make([]float64, len(X))
	for i, q := range quad {
		out[i] = math.Log(pi) + norm - 0.5*q
	}
	return out, nil
}

func (m *LDA) Scores(X [][]float64) ([][]float64, error) { return m.DecisionFunction(X) }

// Predict returns the arg-max column index of the decision function per row.
func (m *LDA) Predict(X [][]float64) ([]int, error) {
	scores, err := m.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	return ArgmaxRows(scores), nil
}

func (m *LDA) PredictProba(X [][]float64) ([][]float64, error) {
	scores, err := m.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	return SoftmaxRows(scores), nil
}
