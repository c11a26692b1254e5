package models

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ArgmaxRows returns the index of the largest score in each row. Ties go to
// the lowest index.
func ArgmaxRows(scores [][]float64) []int {
	out := make([]int, len(scores))
	for i, row := range scores {
		out[i] = floats.MaxIdx(row)
	}
	return out
}

// SoftmaxRows normalizes each row of scores into probabilities.
func SoftmaxRows(scores [][]float64) [][]float64 {
	out := make([][]float64, len(scores))
	for i, row := range scores {
		lse := floats.LogSumExp(row)
		p := make([]float64, len(row))
		for k, s := range row {
			p[k] = math.Exp(s - lse)
		}
		out[i] = p
	}
	return out
}
