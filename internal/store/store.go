// Package store persists a fitted model together with what the API needs
// to serve it: the feature names and the training ranges boundaries are
// drawn over.
package store

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/multierr"

	"discriminant/internal/models"
)

const (
	AlgoLDA = "lda"
	AlgoQDA = "qda"
)

// Artifact is the gob payload written by the trainer. Exactly one of LDA and
// QDA is set, matching Algo.
type Artifact struct {
	Algo         string
	LDA          *models.LDA
	QDA          *models.QDA
	FeatureNames []string
	Mins, Maxs   []float64
}

// NewArtifact wraps a fitted model.
func NewArtifact(m models.Model, names []string, mins, maxs []float64) (*Artifact, error) {
	a := &Artifact{FeatureNames: names, Mins: mins, Maxs: maxs}
	switch t := m.(type) {
	case *models.LDA:
		a.Algo, a.LDA = AlgoLDA, t
	case *models.QDA:
		a.Algo, a.QDA = AlgoQDA, t
	default:
		return nil, errors.Newf("store: cannot persist model %q", m.Name())
	}
	return a, nil
}

// Model returns the wrapped model.
func (a *Artifact) Model() (models.Model, error) {
	switch {
	case a.Algo == AlgoLDA && a.LDA != nil:
		return a.LDA, nil
	case a.Algo == AlgoQDA && a.QDA != nil:
		return a.QDA, nil
	}
	return nil, errors.Newf("store: artifact has no %q model", a.Algo)
}

// NewModel returns an unfitted model for algo.
func NewModel(algo string) (models.Model, error) {
	switch algo {
	case AlgoLDA:
		return models.NewLDA(), nil
	case AlgoQDA:
		return models.NewQDA(), nil
	}
	return nil, errors.Newf("store: unknown algorithm %q", algo)
}

func Save(path string, a *Artifact) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return errors.Wrap(gob.NewEncoder(f).Encode(a), "encoding artifact")
}

func Load(path string) (a *Artifact, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	a = &Artifact{}
	if err := gob.NewDecoder(f).Decode(a); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	if _, err := a.Model(); err != nil {
		return nil, err
	}
	return a, nil
}
