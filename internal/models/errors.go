package models

import "github.com/cockroachdb/errors"

// Sentinel errors returned by the models package. Callers match them with
// errors.Is; the returned errors usually carry more context.
var (
	// ErrEmptyInput is returned by Fit when there are no training rows.
	ErrEmptyInput = errors.New("models: empty training set")

	// ErrShapeMismatch is returned by Fit when X and y disagree in length,
	// when rows have different widths, or when rows have no features.
	ErrShapeMismatch = errors.New("models: shape mismatch")

	// ErrDimension is returned by the scoring functions when a row does not
	// have the dimension the model was fitted with.
	ErrDimension = errors.New("models: wrong feature dimension")

	// ErrNotFitted is returned when scoring a model before Fit.
	ErrNotFitted = errors.New("models: model is not fitted")

	// ErrSingularCovariance marks a covariance matrix that could not be
	// inverted. Fit never reports it; the first scoring call does.
	ErrSingularCovariance = errors.New("models: singular covariance matrix")
)
