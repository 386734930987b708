package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for trainable models.
type Fitter interface {
	// Fit trains the model on the given features and targets.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that produce predictions.
type Predictor interface {
	// Predict returns predictions for the given features as a column vector.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Regressor combines the interfaces implemented by every canopy regression
// estimator. Name identifies the estimator on score boards and in logs.
type Regressor interface {
	Fitter
	Predictor
	Name() string
}

// Transformer is the interface for data transformations.
type Transformer interface {
	// Fit learns the transformation parameters from the data.
	Fit(X mat.Matrix) error

	// Transform applies the learned transformation.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform fits on the data and transforms it in one call.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}
