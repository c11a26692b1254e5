package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"discriminant/internal/config"
	"discriminant/internal/data"
	"discriminant/internal/models"
	"discriminant/internal/server"
	"discriminant/internal/store"
	"discriminant/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	cfg, err := config.Parse("api", os.Args[1:])
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	opts := server.Options{APIKey: cfg.Server.APIKey, Logger: logger}
	if art, err := store.Load(cfg.ModelPath); err == nil {
		opts.Model, _ = art.Model()
		opts.FeatureNames, opts.Mins, opts.Maxs = art.FeatureNames, art.Mins, art.Maxs
		logger.Info("model loaded", zap.String("path", cfg.ModelPath), zap.String("model", opts.Model.Name()))
	} else {
		logger.Warn("no saved model, fitting one on synthetic data", zap.String("path", cfg.ModelPath), zap.Error(err))
		if opts, err = fallback(cfg, opts); err != nil {
			logger.Fatal("fitting fallback model", zap.Error(err))
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := server.New(opts).Router()
	logger.Info("listening", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// fallback fits the configured algorithm on freshly generated data so the
// API can start without a trainer run.
func fallback(cfg config.Config, opts server.Options) (server.Options, error) {
	ds, err := data.Generate(data.GenerateConfig{
		N:        cfg.Data.N,
		Features: cfg.Data.Features,
		Classes:  cfg.Data.Classes,
		Seed:     cfg.Data.Seed,
		ClassSep: cfg.Data.ClassSep,
	})
	if err != nil {
		return opts, err
	}
	var m models.Model
	if m, err = store.NewModel(cfg.Algo); err != nil {
		return opts, err
	}
	if err := m.Fit(ds.X, ds.Y); err != nil {
		return opts, err
	}
	opts.Model = m
	opts.FeatureNames = ds.Names()
	opts.Mins, opts.Maxs = ds.Bounds()
	return opts, nil
}
