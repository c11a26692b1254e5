package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"discriminant/internal/config"
	"discriminant/internal/data"
	"discriminant/internal/features"
	"discriminant/internal/models"
	"discriminant/internal/render"
	"discriminant/internal/store"
	"discriminant/pkg/utils"
)

var algos = []string{store.AlgoLDA, store.AlgoQDA}

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	cfg, err := config.Parse("analyzer", os.Args[1:])
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ds, err := features.Load(cfg.Data.Path)
	if err != nil {
		logger.Fatal("loading dataset", zap.Error(err))
	}
	train, test := data.Split(ds, cfg.Data.TrainFrac, cfg.Data.Seed)
	if test.Len() == 0 {
		logger.Warn("empty test split, curve reports training accuracy only")
	}

	sizes := curveSizes(train.Len(), cfg.Render.CurvePoints, (ds.Dims()+1)*len(classesOf(ds.Y)))
	var series []render.Series
	for _, algo := range algos {
		trainAcc := make([]float64, len(sizes))
		testAcc := make([]float64, len(sizes))
		for k, s := range sizes {
			sub := train.Head(s)
			m, _ := store.NewModel(algo)
			if err := m.Fit(sub.X, sub.Y); err != nil {
				logger.Fatal("fitting curve point", zap.String("model", algo), zap.Int("size", s), zap.Error(err))
			}
			// Small subsets can leave a class with a singular covariance;
			// such points are kept at zero accuracy.
			if trainAcc[k], err = accuracy(m, sub); err != nil {
				logger.Warn("scoring curve point", zap.String("model", m.Name()), zap.Int("size", s), zap.Error(err))
				continue
			}
			if testAcc[k], err = accuracy(m, test); err != nil {
				logger.Warn("scoring curve point", zap.String("model", m.Name()), zap.Int("size", s), zap.Error(err))
				continue
			}
			logger.Info("curve point",
				zap.String("model", m.Name()),
				zap.Int("size", s),
				zap.Float64("train", trainAcc[k]),
				zap.Float64("test", testAcc[k]),
			)
		}
		series = append(series,
			render.Series{Name: fmt.Sprintf("%s train", algo), Values: trainAcc},
			render.Series{Name: fmt.Sprintf("%s test", algo), Values: testAcc},
		)
	}

	csvPath := filepath.Join(cfg.Render.OutDir, "learning_curve.csv")
	if err := writeCurveCSV(csvPath, sizes, series); err != nil {
		logger.Warn("saving curve CSV", zap.Error(err))
	}
	pngPath := filepath.Join(cfg.Render.OutDir, "learning_curve.png")
	if err := render.LearningCurve(pngPath, "Learning curve", sizes, series...); err != nil {
		logger.Warn("saving curve PNG", zap.Error(err))
	} else {
		logger.Info("learning curve written", zap.String("png", pngPath), zap.String("csv", csvPath))
	}

	opt := render.DefaultOptions()
	opt.GridSize = cfg.Render.GridSize
	for _, algo := range algos {
		m, _ := store.NewModel(algo)
		if err := m.Fit(train.X, train.Y); err != nil {
			logger.Fatal("fitting model", zap.String("model", algo), zap.Error(err))
		}
		path := filepath.Join(cfg.Render.OutDir, algo+"_boundary.png")
		if err := render.Slice(path, m, ds, opt); err != nil {
			logger.Warn("rendering boundary", zap.String("model", m.Name()), zap.Error(err))
			continue
		}
		logger.Info("boundary written", zap.String("model", m.Name()), zap.String("png", path))
	}
}

func accuracy(m models.Model, ds *data.Dataset) (float64, error) {
	if ds.Len() == 0 {
		return 0, nil
	}
	pred, err := m.Predict(ds.X)
	if err != nil {
		return 0, err
	}
	return models.Accuracy(models.IndexOf(m.Labels(), ds.Y), pred), nil
}

func classesOf(y []int) map[int]struct{} {
	out := make(map[int]struct{})
	for _, v := range y {
		out[v] = struct{}{}
	}
	return out
}

// curveSizes spreads points training sizes evenly up to total, never below
// floor.
func curveSizes(total, points, floor int) []int {
	if points < 2 {
		points = 2
	}
	if floor > total {
		floor = total
	}
	sizes := make([]int, 0, points)
	for i := 1; i <= points; i++ {
		s := i * total / points
		if s < floor {
			s = floor
		}
		if len(sizes) > 0 && s <= sizes[len(sizes)-1] {
			continue
		}
		sizes = append(sizes, s)
	}
	return sizes
}

func writeCurveCSV(path string, sizes []int, series []render.Series) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	w := csv.NewWriter(f)
	header := []string{"size"}
	for _, s := range series {
		header = append(header, s.Name)
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, size := range sizes {
		rec := []string{strconv.Itoa(size)}
		for _, s := range series {
			rec = append(rec, fmt.Sprintf("%.6f", s.Values[i]))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
