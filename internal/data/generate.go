package data

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// GenerateConfig describes a synthetic classification problem: one Gaussian
// cluster per class, centred on a distinct vertex of a hypercube with side
// 2·ClassSep, with a random linear mixing of unit noise per class.
type GenerateConfig struct {
	N        int
	Features int
	Classes  int
	Seed     int64
	ClassSep float64
}

func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{N: 100, Features: 3, Classes: 2, Seed: 42, ClassSep: 1}
}

func (c GenerateConfig) validate() error {
	if c.Features < 1 {
		return errors.Newf("data: Features must be >= 1, got %d", c.Features)
	}
	if c.Classes < 1 {
		return errors.Newf("data: Classes must be >= 1, got %d", c.Classes)
	}
	if c.N < c.Classes {
		return errors.Newf("data: N must be >= Classes (%d), got %d", c.Classes, c.N)
	}
	if c.Features < 30 && c.Classes > 1<<c.Features {
		return errors.Newf("data: %d classes do not fit on the %d vertices of a %d-cube",
			c.Classes, 1<<c.Features, c.Features)
	}
	if c.ClassSep <= 0 {
		return errors.Newf("data: ClassSep must be > 0, got %f", c.ClassSep)
	}
	return nil
}

// Generate builds the dataset described by cfg. The same config always
// yields the same rows in the same order. Class sizes differ by at most one
// and labels are 0..Classes-1.
func Generate(cfg GenerateConfig) (*Dataset, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	d := cfg.Features
	centroids := hypercubeVertices(rng, cfg.Classes, d, cfg.ClassSep)

	X := make([][]float64, 0, cfg.N)
	y := make([]int, 0, cfg.N)
	for k := 0; k < cfg.Classes; k++ {
		size := cfg.N / cfg.Classes
		if k < cfg.N%cfg.Classes {
			size++
		}
		noise := mat.NewDense(size, d, nil)
		for i := 0; i < size; i++ {
			for j := 0; j < d; j++ {
				noise.Set(i, j, rng.NormFloat64())
			}
		}
		mix := mat.NewDense(d, d, nil)
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				mix.Set(i, j, 2*rng.Float64()-1)
			}
		}
		var cluster mat.Dense
		cluster.Mul(noise, mix)
		for i := 0; i < size; i++ {
			row := make([]float64, d)
			for j := 0; j < d; j++ {
				row[j] = cluster.At(i, j) + centroids[k][j]
			}
			X = append(X, row)
			y = append(y, k)
		}
	}

	rng.Shuffle(len(X), func(i, j int) {
		X[i], X[j] = X[j], X[i]
		y[i], y[j] = y[j], y[i]
	})
	return &Dataset{X: X, Y: y, FeatureNames: DefaultNames(d)}, nil
}

// hypercubeVertices picks k distinct vertices of the d-cube [-sep, sep]^d.
func hypercubeVertices(rng *rand.Rand, k, d int, sep float64) [][]float64 {
	seen := make(map[string]bool, k)
	out := make([][]float64, 0, k)
	for len(out) < k {
		v := make([]float64, d)
		for j := range v {
			v[j] = sep
			if rng.Intn(2) == 0 {
				v[j] = -sep
			}
		}
		key := fmt.Sprint(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// DefaultNames returns f0..f{d-1}.
func DefaultNames(d int) []string {
	names := make([]string, d)
	for j := range names {
		names[j] = "f" + strconv.Itoa(j)
	}
	return names
}
