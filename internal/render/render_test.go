package render_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discriminant/internal/data"
	"discriminant/internal/models"
	"discriminant/internal/render"
)

func assertPNG(t *testing.T, path string) {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(b), 8)
	assert.Equal(t, "\x89PNG", string(b[:4]))
}

func TestSliceValues(t *testing.T) {
	ds := &data.Dataset{
		X: [][]float64{{0, 0, 1, 10}, {0, 0, 3, 20}},
		Y: []int{0, 1},
	}
	assert.Equal(t, []float64{2, 15}, render.SliceValues(ds, nil))
	assert.Equal(t, []float64{7, 15}, render.SliceValues(ds, []float64{7}))
	assert.Equal(t, []float64{2, -1}, render.SliceValues(ds, []float64{math.NaN(), -1}))
	assert.Nil(t, render.SliceValues(&data.Dataset{X: [][]float64{{1, 2}}, Y: []int{0}}, nil))
}

func TestSlice(t *testing.T) {
	ds, err := data.Generate(data.GenerateConfig{N: 90, Features: 3, Classes: 3, Seed: 8, ClassSep: 2})
	require.NoError(t, err)

	for _, m := range []models.Model{models.NewLDA(), models.NewQDA()} {
		t.Run(m.Name(), func(t *testing.T) {
			require.NoError(t, m.Fit(ds.X, ds.Y))
			opt := render.DefaultOptions()
			opt.GridSize = 20
			path := filepath.Join(t.TempDir(), "out", m.Name()+".png")
			require.NoError(t, render.Slice(path, m, ds, opt))
			assertPNG(t, path)
		})
	}
}

func TestSlice_TooFewFeatures(t *testing.T) {
	ds, err := data.Generate(data.GenerateConfig{N: 20, Features: 1, Classes: 2, Seed: 1, ClassSep: 1})
	require.NoError(t, err)
	m := models.NewLDA()
	require.NoError(t, m.Fit(ds.X, ds.Y))
	err = render.Slice(filepath.Join(t.TempDir(), "x.png"), m, ds, render.DefaultOptions())
	assert.Error(t, err)
}

func TestLearningCurve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.png")
	err := render.LearningCurve(path, "curve", []int{10, 20, 40},
		render.Series{Name: "train", Values: []float64{1, 0.95, 0.9}},
		render.Series{Name: "test", Values: []float64{0.7, 0.8, 0.85}},
	)
	require.NoError(t, err)
	assertPNG(t, path)
}
