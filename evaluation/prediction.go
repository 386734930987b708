// Package evaluation turns raw prediction arrays into comparable model
// scores and a final verdict. It is the last stage of a canopy pipeline:
// every trained estimator contributes one PredictionSet over the shared
// held-out test partition, the sets become ModelScores on a ScoreBoard, and
// the board is compared against the naive mean-predictor Baseline.
//
// Everything in this package is a pure function over its inputs: no state is
// retained between calls, no I/O is performed, and no randomness is used.
package evaluation

import (
	"github.com/forestml/canopy/pkg/errors"
)

// PredictionSet is an ordered sequence of (actual, predicted) pairs for one
// model over the held-out test partition. It is validated and copied at
// construction and immutable afterwards.
type PredictionSet struct {
	actual    []float64
	predicted []float64
}

// NewPredictionSet validates and copies the actual and predicted values.
// It fails with InvalidInputError if either sequence is empty, the lengths
// differ, or any value is non-finite.
func NewPredictionSet(actual, predicted []float64) (*PredictionSet, error) {
	const op = "NewPredictionSet"
	if len(actual) == 0 {
		return nil, errors.NewInvalidInputError(op, "empty actual values")
	}
	if len(actual) != len(predicted) {
		return nil, errors.NewInvalidInputErrorf(op, "length mismatch: %d actual vs %d predicted", len(actual), len(predicted))
	}
	if err := errors.CheckFinite(op, actual); err != nil {
		return nil, err
	}
	if err := errors.CheckFinite(op, predicted); err != nil {
		return nil, err
	}

	ps := &PredictionSet{
		actual:    make([]float64, len(actual)),
		predicted: make([]float64, len(predicted)),
	}
	copy(ps.actual, actual)
	copy(ps.predicted, predicted)
	return ps, nil
}

// Len returns the number of pairs in the set.
func (ps *PredictionSet) Len() int {
	return len(ps.actual)
}

// Actual returns a copy of the true target values.
func (ps *PredictionSet) Actual() []float64 {
	out := make([]float64, len(ps.actual))
	copy(out, ps.actual)
	return out
}

// Predicted returns a copy of the predicted values.
func (ps *PredictionSet) Predicted() []float64 {
	out := make([]float64, len(ps.predicted))
	copy(out, ps.predicted)
	return out
}
