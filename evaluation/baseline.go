package evaluation

import (
	"math"

	"github.com/forestml/canopy/pkg/errors"
)

// Baseline is the error a naive "always predict the mean" model would make
// on the test partition: the population standard deviation of the true
// targets. A model whose RMSE beats this bar has learned something.
type Baseline struct {
	Std float64
}

// NewBaseline computes the baseline from the test partition's target values.
// The standard deviation uses population semantics (divide by N, not N-1).
func NewBaseline(targets []float64) (Baseline, error) {
	const op = "NewBaseline"
	if len(targets) == 0 {
		return Baseline{}, errors.NewInvalidInputError(op, "empty target values")
	}
	if err := errors.CheckFinite(op, targets); err != nil {
		return Baseline{}, err
	}

	var mean float64
	for _, v := range targets {
		mean += v
	}
	mean /= float64(len(targets))

	var sumSquares float64
	for _, v := range targets {
		diff := v - mean
		sumSquares += diff * diff
	}

	return Baseline{Std: math.Sqrt(sumSquares / float64(len(targets)))}, nil
}
