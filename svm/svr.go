// Package svm implements a linear support vector regressor trained with
// stochastic gradient descent on the epsilon-insensitive loss.
package svm

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/c-bata/goptuna"
	"github.com/forestml/canopy/core/model"
	"github.com/forestml/canopy/pkg/errors"
	canopylog "github.com/forestml/canopy/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// LinearSVR is a linear epsilon-insensitive support vector regressor.
// Inputs are expected to be standardized; the pipeline runs it after the
// scaler and PCA stages.
type LinearSVR struct {
	model.BaseEstimator

	C            float64 // regularization strength (inverse of weight decay)
	Epsilon      float64 // width of the insensitive tube
	LearningRate float64 // SGD step size
	Epochs       int     // maximum passes over the data
	Tol          float64 // stop when the epoch loss improves by less than this
	RandomState  uint64

	weights   []float64
	intercept float64
	nFeatures int
}

// NewLinearSVR creates a regressor with defaults: C=1, epsilon=0.1,
// learning rate 0.01, up to 1000 epochs.
func NewLinearSVR() *LinearSVR {
	return &LinearSVR{
		C:            1.0,
		Epsilon:      0.1,
		LearningRate: 0.01,
		Epochs:       1000,
		Tol:          1e-4,
		RandomState:  42,
	}
}

// WithC sets the regularization strength.
func (s *LinearSVR) WithC(c float64) *LinearSVR {
	s.C = c
	return s
}

// WithEpsilon sets the insensitive tube width.
func (s *LinearSVR) WithEpsilon(eps float64) *LinearSVR {
	s.Epsilon = eps
	return s
}

// WithRandomState sets the random seed.
func (s *LinearSVR) WithRandomState(seed uint64) *LinearSVR {
	s.RandomState = seed
	return s
}

// Name identifies the estimator on score boards and in logs.
func (s *LinearSVR) Name() string {
	return "svr"
}

// SuggestParams samples hyperparameters from the search space for one
// tuning trial.
func (s *LinearSVR) SuggestParams(trial goptuna.Trial) error {
	c, err := trial.SuggestLogFloat("C", 0.1, 100)
	if err != nil {
		return err
	}
	eps, err := trial.SuggestFloat("epsilon", 0.01, 1.0)
	if err != nil {
		return err
	}
	lr, err := trial.SuggestLogFloat("learning_rate", 1e-3, 5e-2)
	if err != nil {
		return err
	}
	s.C = c
	s.Epsilon = eps
	s.LearningRate = lr
	return nil
}

// Fit runs SGD until the epoch loss stops improving or Epochs is reached.
// Exhausting the epoch budget raises a ConvergenceWarning but still
// produces a usable model.
func (s *LinearSVR) Fit(X, y mat.Matrix) error {
	const op = "LinearSVR.Fit"
	rows, cols := X.Dims()
	ry, cy := y.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ry != rows {
		return errors.NewDimensionError(op, rows, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError(op, "y must be a column vector")
	}
	if s.C <= 0 {
		return errors.NewValueError(op, "C must be positive")
	}
	if s.Epsilon < 0 {
		return errors.NewValueError(op, "epsilon must be non-negative")
	}
	if s.LearningRate <= 0 {
		return errors.NewValueError(op, "learning rate must be positive")
	}
	if s.Epochs < 1 {
		return errors.NewValueError(op, "epochs must be at least 1")
	}

	s.nFeatures = cols
	s.weights = make([]float64, cols)
	s.intercept = 0

	slog.Debug("fitting linear svr",
		canopylog.ModelNameKey, s.Name(),
		canopylog.OperationKey, "fit",
		canopylog.SamplesKey, rows,
		canopylog.FeaturesKey, cols,
	)

	rng := rand.New(rand.NewPCG(s.RandomState, s.RandomState))
	order := make([]int, rows)
	for i := range order {
		order[i] = i
	}

	prevLoss := math.Inf(1)
	converged := false

	for epoch := 0; epoch < s.Epochs; epoch++ {
		rng.Shuffle(rows, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		// Step size decays so the iterates settle.
		lr := s.LearningRate / (1 + 0.01*float64(epoch))

		for _, i := range order {
			pred := s.intercept
			for j := 0; j < cols; j++ {
				pred += s.weights[j] * X.At(i, j)
			}
			residual := y.At(i, 0) - pred

			// Weight decay from the L2 term applies on every step.
			for j := 0; j < cols; j++ {
				s.weights[j] -= lr * s.weights[j] / (s.C * float64(rows))
			}

			if math.Abs(residual) <= s.Epsilon {
				continue
			}
			sign := 1.0
			if residual < 0 {
				sign = -1.0
			}
			for j := 0; j < cols; j++ {
				s.weights[j] += lr * sign * X.At(i, j)
			}
			s.intercept += lr * sign
		}

		loss := s.epochLoss(X, y, rows, cols)
		if math.Abs(prevLoss-loss) < s.Tol {
			converged = true
			break
		}
		prevLoss = loss
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LinearSVR", s.Epochs, ""))
	}

	s.SetFitted()
	return nil
}

// Predict computes w·x + b for every row.
func (s *LinearSVR) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("LinearSVR", "Predict")
	}
	rows, cols := X.Dims()
	if cols != s.nFeatures {
		return nil, errors.NewDimensionError("LinearSVR.Predict", s.nFeatures, cols, 1)
	}

	result := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		pred := s.intercept
		for j := 0; j < cols; j++ {
			pred += s.weights[j] * X.At(i, j)
		}
		result.Set(i, 0, pred)
	}
	return result, nil
}

// Weights returns a copy of the learned coefficients.
func (s *LinearSVR) Weights() []float64 {
	out := make([]float64, len(s.weights))
	copy(out, s.weights)
	return out
}

// Intercept returns the learned intercept.
func (s *LinearSVR) Intercept() float64 {
	return s.intercept
}

func (s *LinearSVR) epochLoss(X, y mat.Matrix, rows, cols int) float64 {
	var loss float64
	for i := 0; i < rows; i++ {
		pred := s.intercept
		for j := 0; j < cols; j++ {
			pred += s.weights[j] * X.At(i, j)
		}
		excess := math.Abs(y.At(i, 0)-pred) - s.Epsilon
		if excess > 0 {
			loss += excess
		}
	}
	return loss / float64(rows)
}
