package boundary

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"discriminant/internal/models"
)

// VerticalTol is the smallest |w_z| for which a plane is solved for z.
const VerticalTol = 1e-6

// Plane is the LDA decision boundary between classes I and J (column
// indices): the set of x with W·x + B = 0. W·x + B is positive on class I's
// side.
type Plane struct {
	I, J int
	W    []float64
	B    float64
}

// Eval returns W·x + B, which equals score_I(x) − score_J(x) under the LDA
// decision function.
func (p Plane) Eval(x []float64) float64 {
	return floats.Dot(p.W, x) + p.B
}

// SolveZ returns the z with W·[x, y, z] + B = 0 for a 3-D plane. It reports
// false when the plane is nearly parallel to the z axis.
func (p Plane) SolveZ(x, y float64) (float64, bool) {
	if len(p.W) != 3 || math.Abs(p.W[2]) < VerticalTol {
		return 0, false
	}
	return -(p.W[0]*x + p.W[1]*y + p.B) / p.W[2], true
}

// LDAPlanes returns the boundary plane of every class pair i < j:
//
//	w = S⁻¹(mu_i − mu_j)
//	b = −0.5·(mu_iᵀS⁻¹mu_i − mu_jᵀS⁻¹mu_j) + log(pi_i / pi_j)
//
// S is inverted once for all pairs.
func LDAPlanes(m *models.LDA) ([]Plane, error) {
	if m.S == nil {
		return nil, models.ErrNotFitted
	}
	inv, _, err := models.InvertCovariance(m.S)
	if err != nil {
		return nil, err
	}
	d := len(m.Mu)
	mus := make([]*mat.VecDense, len(m.Mus))
	for k, mu := range m.Mus {
		mus[k] = mat.NewVecDense(d, append([]float64(nil), mu...))
	}

	var planes []Plane
	for _, pr := range Pairs(len(m.Classes)) {
		i, j := pr[0], pr[1]
		var diff, w mat.VecDense
		diff.SubVec(mus[i], mus[j])
		w.MulVec(inv, &diff)
		qi := mat.Inner(mus[i], inv, mus[i])
		qj := mat.Inner(mus[j], inv, mus[j])
		planes = append(planes, Plane{
			I: i,
			J: j,
			W: w.RawVector().Data,
			B: -0.5*(qi-qj) + math.Log(m.Pis[i]/m.Pis[j]),
		})
	}
	return planes, nil
}

// Pairs returns every index pair (i, j) with 0 <= i < j < k in
// lexicographic order.
func Pairs(k int) [][2]int {
	var out [][2]int
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			out = append(out, [2]int{i, j})
		}
	}
	return out
}
