package evaluation

import (
	"math"

	"github.com/forestml/canopy/pkg/errors"
)

// ModelScore pairs a model identifier with its error metrics on the test
// partition. RMSE is always the non-negative square root of MSE.
type ModelScore struct {
	Model string
	MSE   float64
	RMSE  float64
}

// Score computes the error metrics for one model's predictions.
func Score(model string, ps *PredictionSet) (ModelScore, error) {
	const op = "Score"
	if model == "" {
		return ModelScore{}, errors.NewInvalidInputError(op, "empty model identifier")
	}
	if ps == nil || ps.Len() == 0 {
		return ModelScore{}, errors.NewInvalidInputError(op, "empty prediction set")
	}

	// PredictionSet guarantees equal lengths and finite values.
	var sum float64
	for i := range ps.actual {
		diff := ps.actual[i] - ps.predicted[i]
		sum += diff * diff
	}
	mse := sum / float64(ps.Len())

	return ModelScore{
		Model: model,
		MSE:   mse,
		RMSE:  math.Sqrt(mse),
	}, nil
}
