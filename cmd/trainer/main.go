package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"discriminant/internal/config"
	"discriminant/internal/data"
	"discriminant/internal/features"
	"discriminant/internal/models"
	"discriminant/internal/store"
	"discriminant/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	cfg, err := config.Parse("trainer", os.Args[1:])
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	if cfg.Data.Regen {
		logger.Info("generating synthetic dataset",
			zap.Int("n", cfg.Data.N),
			zap.Int("features", cfg.Data.Features),
			zap.Int("classes", cfg.Data.Classes),
			zap.Int64("seed", cfg.Data.Seed),
			zap.String("out", cfg.Data.Path),
		)
		ds, err := data.Generate(data.GenerateConfig{
			N:        cfg.Data.N,
			Features: cfg.Data.Features,
			Classes:  cfg.Data.Classes,
			Seed:     cfg.Data.Seed,
			ClassSep: cfg.Data.ClassSep,
		})
		if err != nil {
			logger.Fatal("generating dataset", zap.Error(err))
		}
		if err := data.WriteCSV(cfg.Data.Path, ds); err != nil {
			logger.Fatal("writing dataset", zap.Error(err))
		}
	}

	ds, err := features.Load(cfg.Data.Path)
	if err != nil {
		logger.Fatal("loading dataset", zap.Error(err))
	}
	train, test := data.Split(ds, cfg.Data.TrainFrac, cfg.Data.Seed)
	logger.Info("dataset split",
		zap.Int("train", train.Len()),
		zap.Int("test", test.Len()),
		zap.Int("features", ds.Dims()),
	)

	mdl, err := store.NewModel(cfg.Algo)
	if err != nil {
		logger.Fatal("building model", zap.Error(err))
	}
	if err := mdl.Fit(train.X, train.Y); err != nil {
		logger.Fatal("fitting model", zap.String("model", mdl.Name()), zap.Error(err))
	}

	trainAcc, _, err := evaluate(mdl, train)
	if err != nil {
		logger.Fatal("scoring training set", zap.Error(err))
	}
	fields := []zap.Field{zap.String("model", mdl.Name()), zap.Float64("train_accuracy", trainAcc)}
	if test.Len() > 0 {
		testAcc, cm, err := evaluate(mdl, test)
		if err != nil {
			logger.Fatal("scoring test set", zap.Error(err))
		}
		fields = append(fields, zap.Float64("test_accuracy", testAcc), zap.Any("confusion", cm))
	}
	logger.Info("holdout metrics", fields...)

	mins, maxs := ds.Bounds()
	art, err := store.NewArtifact(mdl, ds.Names(), mins, maxs)
	if err != nil {
		logger.Fatal("packing model", zap.Error(err))
	}
	if err := store.Save(cfg.ModelPath, art); err != nil {
		logger.Fatal("saving model", zap.Error(err))
	}
	logger.Info("model saved", zap.String("path", cfg.ModelPath))
	fmt.Println("Model:", mdl.Name())
}

// evaluate returns the accuracy of m on ds and the confusion matrix over the
// model's class columns. Labels unseen at fit time count as misses.
func evaluate(m models.Model, ds *data.Dataset) (float64, [][]int, error) {
	pred, err := m.Predict(ds.X)
	if err != nil {
		return 0, nil, err
	}
	truth := models.IndexOf(m.Labels(), ds.Y)
	return models.Accuracy(truth, pred), models.ConfusionMatrix(truth, pred, len(m.Labels())), nil
}
