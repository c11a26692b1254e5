// Package config loads the settings shared by the trainer, analyzer and api
// commands. Values come from defaults, then an optional YAML file, then the
// environment, then command-line flags.
package config

import (
	"flag"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

type Config struct {
	Algo      string       `yaml:"algo" validate:"oneof=lda qda"`
	ModelPath string       `yaml:"model_path" validate:"required"`
	Data      DataConfig   `yaml:"data"`
	Server    ServerConfig `yaml:"server"`
	Render    RenderConfig `yaml:"render"`
}

type DataConfig struct {
	Path      string  `yaml:"path" validate:"required"`
	Regen     bool    `yaml:"regen"`
	N         int     `yaml:"n" validate:"gte=1"`
	Features  int     `yaml:"features" validate:"gte=1"`
	Classes   int     `yaml:"classes" validate:"gte=1"`
	Seed      int64   `yaml:"seed"`
	ClassSep  float64 `yaml:"class_sep" validate:"gt=0"`
	TrainFrac float64 `yaml:"train_frac" validate:"gt=0,lte=1"`
}

type ServerConfig struct {
	Port   string `yaml:"port" validate:"required,numeric"`
	APIKey string `yaml:"api_key"`
}

type RenderConfig struct {
	OutDir      string `yaml:"out_dir" validate:"required"`
	GridSize    int    `yaml:"grid_size" validate:"gte=2,lte=200"`
	CurvePoints int    `yaml:"curve_points" validate:"gte=2"`
}

func Default() Config {
	return Config{
		Algo:      "lda",
		ModelPath: "models/model.gob",
		Data: DataConfig{
			Path:      "data/synthetic.csv",
			Regen:     true,
			N:         100,
			Features:  3,
			Classes:   2,
			Seed:      42,
			ClassSep:  1,
			TrainFrac: 0.8,
		},
		Server: ServerConfig{Port: "8080"},
		Render: RenderConfig{OutDir: "out", GridSize: 60, CurvePoints: 8},
	}
}

// LoadFile overlays the YAML file at path onto the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// Parse builds the configuration for command name from args.
func Parse(name string, args []string) (Config, error) {
	var path string
	probe := Default()
	if err := newFlagSet(name, &probe, &path).Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	// Only flags present in args overwrite file and env values.
	if err := newFlagSet(name, &cfg, &path).Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		c.ModelPath = v
	}
	if v := os.Getenv("MODEL_ALGO"); v != "" {
		c.Algo = v
	}
}

func newFlagSet(name string, c *Config, path *string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(path, "config", "", "YAML config file")
	fs.StringVar(&c.Algo, "algo", c.Algo, "Algorithm: lda|qda")
	fs.StringVar(&c.ModelPath, "model", c.ModelPath, "Path of the gob model artifact")
	fs.StringVar(&c.Data.Path, "data", c.Data.Path, "Dataset CSV")
	fs.BoolVar(&c.Data.Regen, "regen", c.Data.Regen, "Regenerate the synthetic dataset")
	fs.IntVar(&c.Data.N, "n", c.Data.N, "Number of synthetic samples")
	fs.IntVar(&c.Data.Features, "features", c.Data.Features, "Number of synthetic features")
	fs.IntVar(&c.Data.Classes, "classes", c.Data.Classes, "Number of synthetic classes")
	fs.Int64Var(&c.Data.Seed, "seed", c.Data.Seed, "Seed for generation and splits")
	fs.Float64Var(&c.Data.ClassSep, "class_sep", c.Data.ClassSep, "Half side of the class hypercube")
	fs.Float64Var(&c.Data.TrainFrac, "train_frac", c.Data.TrainFrac, "Fraction of each class used for training")
	fs.StringVar(&c.Server.Port, "port", c.Server.Port, "HTTP port")
	fs.StringVar(&c.Render.OutDir, "out_dir", c.Render.OutDir, "Directory for PNG and CSV outputs")
	fs.IntVar(&c.Render.GridSize, "grid_size", c.Render.GridSize, "Grid points per axis for boundary renders")
	fs.IntVar(&c.Render.CurvePoints, "curve_points", c.Render.CurvePoints, "Points on the learning curve")
	return fs
}
