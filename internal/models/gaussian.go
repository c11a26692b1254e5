package models

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// classStats is what both discriminant models derive from the labels alone:
// the sorted class registry, per-class means and priors, and the row indices
// belonging to each class.
type classStats struct {
	classes []int
	mus     [][]float64
	pis     []float64
	members [][]int
}

// checkTrainingSet validates the shapes Fit relies on and returns n and d.
func checkTrainingSet(X [][]float64, y []int) (n, d int, err error) {
	n = len(X)
	if n == 0 {
		return 0, 0, ErrEmptyInput
	}
	if n != len(y) {
		return 0, 0, errors.Wrapf(ErrShapeMismatch, "%d rows but %d labels", n, len(y))
	}
	d = len(X[0])
	if d == 0 {
		return 0, 0, errors.Wrap(ErrShapeMismatch, "rows have no features")
	}
	for i, row := range X {
		if len(row) != d {
			return 0, 0, errors.Wrapf(ErrShapeMismatch, "row %d has %d features, want %d", i, len(row), d)
		}
	}
	return n, d, nil
}

func fitClassStats(X [][]float64, y []int) classStats {
	n, d := len(X), len(X[0])

	byLabel := make(map[int][]int)
	for i, label := range y {
		byLabel[label] = append(byLabel[label], i)
	}
	classes := make([]int, 0, len(byLabel))
	for label := range byLabel {
		classes = append(classes, label)
	}
	sort.Ints(classes)

	st := classStats{
		classes: classes,
		mus:     make([][]float64, len(classes)),
		pis:     make([]float64, len(classes)),
		members: make([][]int, len(classes)),
	}
	for k, label := range classes {
		rows := byLabel[label]
		sum := make([]float64, d)
		for _, i := range rows {
			for j, v := range X[i] {
				sum[j] += v
			}
		}
		for j := range sum {
			sum[j] /= float64(len(rows))
		}
		st.mus[k] = sum
		st.pis[k] = float64(len(rows)) / float64(n)
		st.members[k] = rows
	}
	return st
}

// weightedMean returns musᵀ·pis.
func weightedMean(mus [][]float64, pis []float64) []float64 {
	M := toDense(mus)
	var mu mat.VecDense
	mu.MulVec(M.T(), mat.NewVecDense(len(pis), append([]float64(nil), pis...)))
	return mu.RawVector().Data
}

// scatter returns (A − center)ᵀ(A − center) / len(rows), where A holds the
// given rows of X.
func scatter(X [][]float64, rows []int, center []float64) [][]float64 {
	d := len(center)
	A := mat.NewDense(len(rows), d, nil)
	for r, i := range rows {
		for j := 0; j < d; j++ {
			A.Set(r, j, X[i][j]-center[j])
		}
	}
	var S mat.Dense
	S.Mul(A.T(), A)
	S.Scale(1/float64(len(rows)), &S)
	return fromDense(&S)
}

// InvertCovariance returns the inverse and the determinant of cov. Only an
// exactly singular matrix is an error; an ill-conditioned one is inverted
// as-is. The error is marked with ErrSingularCovariance.
func InvertCovariance(cov [][]float64) (*mat.Dense, float64, error) {
	S := toDense(cov)
	var inv mat.Dense
	if err := inv.Inverse(S); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, 0, errors.Mark(errors.Wrap(err, "inverting covariance"), ErrSingularCovariance)
		}
	}
	return &inv, mat.Det(S), nil
}

// quadForms returns (x−mu)ᵀ·inv·(x−mu) for every row x of X.
func quadForms(X [][]float64, mu []float64, inv mat.Matrix) []float64 {
	d := len(mu)
	diff := mat.NewVecDense(d, nil)
	out := make([]float64, len(X))
	for i, x := range X {
		for j := 0; j < d; j++ {
			diff.SetVec(j, x[j]-mu[j])
		}
		out[i] = mat.Inner(diff, inv, diff)
	}
	return out
}

// checkScoringInput verifies X against the fitted dimension d.
func checkScoringInput(X [][]float64, d int) error {
	for i, row := range X {
		if len(row) != d {
			return errors.Wrapf(ErrDimension, "row %d has %d features, want %d", i, len(row), d)
		}
	}
	return nil
}

func newScoreMatrix(n, k int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, k)
	}
	return out
}

func toDense(rows [][]float64) *mat.Dense {
	r, c := len(rows), len(rows[0])
	data := make([]float64, 0, r*c)
	for _, row := range rows {
		data = append(data, row...)
	}
	return mat.NewDense(r, c, data)
}

func fromDense(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}
