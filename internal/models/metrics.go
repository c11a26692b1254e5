package models

// IndexOf maps each label in y to its column index in classes, or -1 when
// the label was not seen at fit time.
func IndexOf(classes []int, y []int) []int {
	pos := make(map[int]int, len(classes))
	for k, c := range classes {
		pos[c] = k
	}
	out := make([]int, len(y))
	for i, label := range y {
		k, ok := pos[label]
		if !ok {
			k = -1
		}
		out[i] = k
	}
	return out
}

func Accuracy(y, p []int) float64 {
	if len(y) == 0 {
		return 0
	}
	c := 0
	for i := range y {
		if y[i] == p[i] {
			c++
		}
	}
	return float64(c) / float64(len(y))
}

// ConfusionMatrix counts truth (rows) against prediction (columns). Both are
// column indices in [0, k); out-of-range entries are skipped.
func ConfusionMatrix(truth, pred []int, k int) [][]int {
	cm := make([][]int, k)
	for i := range cm {
		cm[i] = make([]int, k)
	}
	for i := range truth {
		t, p := truth[i], pred[i]
		if t < 0 || t >= k || p < 0 || p >= k {
			continue
		}
		cm[t][p]++
	}
	return cm
}
