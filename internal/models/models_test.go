package models_test

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"discriminant/internal/data"
	"discriminant/internal/models"
)

const tol = 1e-9

func twoBlobs() ([][]float64, []int) {
	X := [][]float64{
		{0, 0}, {1, 0}, {0, 1}, {1, 2},
		{4, 4}, {5, 4}, {4, 5}, {6, 6},
	}
	y := []int{3, 3, 3, 3, 7, 7, 7, 7}
	return X, y
}

func generated(t *testing.T, cfg data.GenerateConfig) *data.Dataset {
	t.Helper()
	ds, err := data.Generate(cfg)
	require.NoError(t, err)
	return ds
}

// populationCov returns the n-normalized covariance of rows.
func populationCov(rows [][]float64) *mat.SymDense {
	n, d := len(rows), len(rows[0])
	A := mat.NewDense(n, d, nil)
	for i, r := range rows {
		A.SetRow(i, r)
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, A, nil)
	cov.ScaleSym(float64(n-1)/float64(n), &cov)
	return &cov
}

func assertMatrixEqual(t *testing.T, want mat.Matrix, got [][]float64) {
	t.Helper()
	r, c := want.Dims()
	require.Len(t, got, r)
	for i := 0; i < r; i++ {
		require.Len(t, got[i], c)
		for j := 0; j < c; j++ {
			assert.InDelta(t, want.At(i, j), got[i][j], 1e-9, "entry (%d,%d)", i, j)
		}
	}
}

func constructors() map[string]func() models.Model {
	return map[string]func() models.Model{
		"LDA": func() models.Model { return models.NewLDA() },
		"QDA": func() models.Model { return models.NewQDA() },
	}
}

func TestFit_ClassStatistics(t *testing.T) {
	X, y := twoBlobs()

	lda := models.NewLDA()
	require.NoError(t, lda.Fit(X, y))
	assert.Equal(t, []int{3, 7}, lda.Classes)
	assert.InDelta(t, 1, floats.Sum(lda.Pis), tol)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, lda.Pis, tol)
	assert.InDeltaSlice(t, []float64{0.5, 0.75}, lda.Mus[0], tol)
	assert.InDeltaSlice(t, []float64{4.75, 4.75}, lda.Mus[1], tol)

	qda := models.NewQDA()
	require.NoError(t, qda.Fit(X, y))
	assert.Equal(t, lda.Classes, qda.Classes)
	assert.Equal(t, lda.Mus, qda.Mus)
	assert.Equal(t, lda.Pis, qda.Pis)
}

func TestFit_MeansMatchClassRows(t *testing.T) {
	ds := generated(t, data.GenerateConfig{N: 90, Features: 3, Classes: 3, Seed: 7, ClassSep: 1})
	for name, newModel := range constructors() {
		t.Run(name, func(t *testing.T) {
			m := newModel()
			require.NoError(t, m.Fit(ds.X, ds.Y))
			var mus [][]float64
			switch fm := m.(type) {
			case *models.LDA:
				mus = fm.Mus
			case *models.QDA:
				mus = fm.Mus
			}
			for k, label := range m.Labels() {
				col := make([][]float64, 0)
				for i, row := range ds.X {
					if ds.Y[i] == label {
						col = append(col, row)
					}
				}
				for j := range mus[k] {
					vals := make([]float64, len(col))
					for i, row := range col {
						vals[i] = row[j]
					}
					assert.InDelta(t, stat.Mean(vals, nil), mus[k][j], 1e-9)
				}
			}
		})
	}
}

func TestLDA_SharedCovariance(t *testing.T) {
	X, y := twoBlobs()
	m := models.NewLDA()
	require.NoError(t, m.Fit(X, y))

	// Balanced classes: the prior-weighted mean is the overall mean, so S is
	// the population covariance of every row.
	assert.InDeltaSlice(t, []float64{2.625, 2.75}, m.Mu, tol)
	assertMatrixEqual(t, populationCov(X), m.S)
}

func TestQDA_PerClassCovariance(t *testing.T) {
	X, y := twoBlobs()
	m := models.NewQDA()
	require.NoError(t, m.Fit(X, y))
	require.Len(t, m.Ss, 2)
	assertMatrixEqual(t, populationCov(X[:4]), m.Ss[0])
	assertMatrixEqual(t, populationCov(X[4:]), m.Ss[1])
	assert.NotEqual(t, m.Ss[0], m.Ss[1])
}

func TestLDA_DecisionFunctionFormula(t *testing.T) {
	X, y := twoBlobs()
	m := models.NewLDA()
	require.NoError(t, m.Fit(X, y))

	S := mat.NewDense(2, 2, []float64{m.S[0][0], m.S[0][1], m.S[1][0], m.S[1][1]})
	var inv mat.Dense
	require.NoError(t, inv.Inverse(S))
	det := mat.Det(S)

	pts := [][]float64{{2, 2}, {0, 3}, {5, 1}}
	got, err := m.DecisionFunction(pts)
	require.NoError(t, err)
	for i, p := range pts {
		for k := range m.Classes {
			diff := mat.NewVecDense(2, []float64{p[0] - m.Mus[k][0], p[1] - m.Mus[k][1]})
			want := math.Log(m.Pis[k]) + 1/(2*math.Pi*math.Sqrt(det)) - 0.5*mat.Inner(diff, &inv, diff)
			assert.InDelta(t, want, got[i][k], 1e-9, "point %d class %d", i, k)
		}
	}
}

func TestQDA_DiscriminantFormula(t *testing.T) {
	X, y := twoBlobs()
	m := models.NewQDA()
	require.NoError(t, m.Fit(X, y))

	pts := [][]float64{{2, 2}, {0, 3}}
	got, err := m.DiscriminantFunction(pts)
	require.NoError(t, err)
	for k := range m.Classes {
		inv, det, err := models.InvertCovariance(m.Ss[k])
		require.NoError(t, err)
		for i, p := range pts {
			diff := mat.NewVecDense(2, []float64{p[0] - m.Mus[k][0], p[1] - m.Mus[k][1]})
			want := math.Log(m.Pis[k]) - 0.5*math.Log(det) - 0.5*mat.Inner(diff, inv, diff)
			assert.InDelta(t, want, got[i][k], 1e-9, "point %d class %d", i, k)
		}
	}
}

func TestPredict_WellSeparatedRecoversLabels(t *testing.T) {
	ds := generated(t, data.GenerateConfig{N: 120, Features: 3, Classes: 3, Seed: 3, ClassSep: 4})
	for name, newModel := range constructors() {
		t.Run(name, func(t *testing.T) {
			m := newModel()
			require.NoError(t, m.Fit(ds.X, ds.Y))
			pred, err := models.PredictLabels(m, ds.X)
			require.NoError(t, err)

			// Majority prediction per true class is the class itself.
			votes := map[int]map[int]int{}
			for i, label := range ds.Y {
				if votes[label] == nil {
					votes[label] = map[int]int{}
				}
				votes[label][pred[i]]++
			}
			for label, v := range votes {
				best, bestN := 0, -1
				for p, n := range v {
					if n > bestN {
						best, bestN = p, n
					}
				}
				assert.Equal(t, label, best, "class %d", label)
			}
		})
	}
}

func TestPredict_Deterministic(t *testing.T) {
	ds := generated(t, data.DefaultGenerateConfig())
	for name, newModel := range constructors() {
		t.Run(name, func(t *testing.T) {
			m := newModel()
			require.NoError(t, m.Fit(ds.X, ds.Y))
			a, err := m.Predict(ds.X)
			require.NoError(t, err)
			b, err := m.Predict(ds.X)
			require.NoError(t, err)
			assert.Equal(t, a, b)
		})
	}
}

func TestDefaultScenario(t *testing.T) {
	ds := generated(t, data.GenerateConfig{N: 100, Features: 3, Classes: 2, Seed: 42, ClassSep: 1})
	for name, newModel := range constructors() {
		t.Run(name, func(t *testing.T) {
			m := newModel()
			require.NoError(t, m.Fit(ds.X, ds.Y))
			assert.Len(t, m.Labels(), 2)

			pred, err := m.Predict(ds.X)
			require.NoError(t, err)
			require.Len(t, pred, 100)
			for _, p := range pred {
				assert.Contains(t, []int{0, 1}, p)
			}
		})
	}
	lda := models.NewLDA()
	require.NoError(t, lda.Fit(ds.X, ds.Y))
	assert.InDelta(t, 1, floats.Sum(lda.Pis), tol)
	assert.Len(t, lda.S, 3)

	qda := models.NewQDA()
	require.NoError(t, qda.Fit(ds.X, ds.Y))
	assert.Len(t, qda.Ss, 2)
	for _, s := range qda.Ss {
		assert.Len(t, s, 3)
	}
}

func TestPredictProba_RowsSumToOne(t *testing.T) {
	ds := generated(t, data.GenerateConfig{N: 60, Features: 2, Classes: 3, Seed: 11, ClassSep: 2})
	for name, newModel := range constructors() {
		t.Run(name, func(t *testing.T) {
			m := newModel()
			require.NoError(t, m.Fit(ds.X, ds.Y))
			proba, err := m.PredictProba(ds.X)
			require.NoError(t, err)
			pred, err := m.Predict(ds.X)
			require.NoError(t, err)
			for i, row := range proba {
				assert.InDelta(t, 1, floats.Sum(row), 1e-9)
				assert.Equal(t, pred[i], floats.MaxIdx(row))
			}
		})
	}
}

func TestFit_InvalidShapes(t *testing.T) {
	tests := []struct {
		name string
		X    [][]float64
		y    []int
		want error
	}{
		{"empty", nil, nil, models.ErrEmptyInput},
		{"label count", [][]float64{{1}, {2}}, []int{0}, models.ErrShapeMismatch},
		{"ragged", [][]float64{{1, 2}, {3}}, []int{0, 1}, models.ErrShapeMismatch},
		{"no features", [][]float64{{}, {}}, []int{0, 1}, models.ErrShapeMismatch},
	}
	for _, tt := range tests {
		for name, newModel := range constructors() {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				err := newModel().Fit(tt.X, tt.y)
				assert.True(t, errors.Is(err, tt.want), "got %v", err)
			})
		}
	}
}

func TestScores_Errors(t *testing.T) {
	X, y := twoBlobs()
	for name, newModel := range constructors() {
		t.Run(name, func(t *testing.T) {
			m := newModel()
			_, err := m.Scores(X)
			assert.True(t, errors.Is(err, models.ErrNotFitted), "got %v", err)

			require.NoError(t, m.Fit(X, y))
			_, err = m.Predict([][]float64{{1, 2, 3}})
			assert.True(t, errors.Is(err, models.ErrDimension), "got %v", err)
		})
	}
}

func TestSingularCovariance(t *testing.T) {
	t.Run("LDA constant feature", func(t *testing.T) {
		X := [][]float64{{0, 1}, {0, 2}, {0, 5}, {0, 7}}
		y := []int{0, 0, 1, 1}
		m := models.NewLDA()
		require.NoError(t, m.Fit(X, y))
		_, err := m.Predict(X)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrSingularCovariance), "got %v", err)
	})
	t.Run("QDA single-row class", func(t *testing.T) {
		X := [][]float64{{0, 1}, {1, 0}, {2, 2}, {9, 9}}
		y := []int{0, 0, 0, 1}
		m := models.NewQDA()
		require.NoError(t, m.Fit(X, y))
		_, err := m.PredictProba(X)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrSingularCovariance), "got %v", err)
	})
}

func TestPredictLabels(t *testing.T) {
	X, y := twoBlobs()
	m := models.NewLDA()
	require.NoError(t, m.Fit(X, y))
	idx, err := m.Predict(X)
	require.NoError(t, err)
	labels, err := models.PredictLabels(m, X)
	require.NoError(t, err)
	for i := range idx {
		assert.Equal(t, m.Classes[idx[i]], labels[i])
	}
	assert.Equal(t, y, labels)
}

func cloneRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = append([]float64(nil), r...)
	}
	return out
}

func TestFit_DoesNotAliasInput(t *testing.T) {
	query := [][]float64{{0.5, 0.5}, {4.5, 4.5}, {2, 3}}
	clobber := func(X [][]float64) {
		for _, r := range X {
			for j := range r {
				r[j] = 1000
			}
		}
	}

	t.Run("LDA", func(t *testing.T) {
		X, y := twoBlobs()
		m := models.NewLDA()
		require.NoError(t, m.Fit(X, y))
		mus, mu, S := cloneRows(m.Mus), append([]float64(nil), m.Mu...), cloneRows(m.S)
		scores, err := m.Scores(query)
		require.NoError(t, err)

		clobber(X)
		assert.Equal(t, mus, m.Mus)
		assert.Equal(t, mu, m.Mu)
		assert.Equal(t, S, m.S)
		after, err := m.Scores(query)
		require.NoError(t, err)
		assert.Equal(t, scores, after)
	})

	t.Run("QDA", func(t *testing.T) {
		X, y := twoBlobs()
		m := models.NewQDA()
		require.NoError(t, m.Fit(X, y))
		mus := cloneRows(m.Mus)
		ss := make([][][]float64, len(m.Ss))
		for k, s := range m.Ss {
			ss[k] = cloneRows(s)
		}
		scores, err := m.Scores(query)
		require.NoError(t, err)

		clobber(X)
		assert.Equal(t, mus, m.Mus)
		assert.Equal(t, ss, m.Ss)
		after, err := m.Scores(query)
		require.NoError(t, err)
		assert.Equal(t, scores, after)
	})
}
