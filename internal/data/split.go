package data

import "math/rand"

// Split shuffles ds with seed and cuts it into train and test sets, keeping
// trainFrac of every class in train.
func Split(ds *Dataset, trainFrac float64, seed int64) (train, test *Dataset) {
	rng := rand.New(rand.NewSource(seed))

	byClass := make(map[int][]int)
	var order []int
	for i, label := range ds.Y {
		if _, ok := byClass[label]; !ok {
			order = append(order, label)
		}
		byClass[label] = append(byClass[label], i)
	}

	var trainIdx, testIdx []int
	for _, label := range order {
		idx := byClass[label]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		cut := int(trainFrac * float64(len(idx)))
		trainIdx = append(trainIdx, idx[:cut]...)
		testIdx = append(testIdx, idx[cut:]...)
	}
	rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })
	rng.Shuffle(len(testIdx), func(i, j int) { testIdx[i], testIdx[j] = testIdx[j], testIdx[i] })
	return ds.Subset(trainIdx), ds.Subset(testIdx)
}
