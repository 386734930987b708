package ensemble

import (
	"log/slog"
	"math/rand/v2"

	"github.com/c-bata/goptuna"
	"github.com/forestml/canopy/core/model"
	"github.com/forestml/canopy/pkg/errors"
	canopylog "github.com/forestml/canopy/pkg/log"
	"github.com/forestml/canopy/tree"
	"gonum.org/v1/gonum/mat"
)

// GradientBoostingRegressor fits shallow regression trees to the running
// residual under squared-error loss.
type GradientBoostingRegressor struct {
	model.BaseEstimator

	NEstimators  int     // number of boosting rounds
	LearningRate float64 // shrinkage applied to each tree
	MaxDepth     int     // depth of each tree
	Subsample    float64 // row fraction per round; 1.0 disables subsampling
	RandomState  uint64

	init      float64 // initial prediction: mean of training targets
	trees     []*tree.Regressor
	nFeatures int
}

// NewGradientBoostingRegressor creates a booster with defaults: 100 rounds
// of depth-3 trees at learning rate 0.1.
func NewGradientBoostingRegressor() *GradientBoostingRegressor {
	return &GradientBoostingRegressor{
		NEstimators:  100,
		LearningRate: 0.1,
		MaxDepth:     3,
		Subsample:    1.0,
		RandomState:  42,
	}
}

// WithNEstimators sets the number of boosting rounds.
func (gb *GradientBoostingRegressor) WithNEstimators(n int) *GradientBoostingRegressor {
	gb.NEstimators = n
	return gb
}

// WithLearningRate sets the shrinkage factor.
func (gb *GradientBoostingRegressor) WithLearningRate(lr float64) *GradientBoostingRegressor {
	gb.LearningRate = lr
	return gb
}

// WithRandomState sets the random seed.
func (gb *GradientBoostingRegressor) WithRandomState(seed uint64) *GradientBoostingRegressor {
	gb.RandomState = seed
	return gb
}

// Name identifies the estimator on score boards and in logs.
func (gb *GradientBoostingRegressor) Name() string {
	return "gradient_boosting"
}

// SuggestParams samples hyperparameters from the search space for one
// tuning trial.
func (gb *GradientBoostingRegressor) SuggestParams(trial goptuna.Trial) error {
	n, err := trial.SuggestInt("n_estimators", 50, 300)
	if err != nil {
		return err
	}
	lr, err := trial.SuggestLogFloat("learning_rate", 0.01, 0.3)
	if err != nil {
		return err
	}
	depth, err := trial.SuggestInt("max_depth", 2, 5)
	if err != nil {
		return err
	}
	subsample, err := trial.SuggestFloat("subsample", 0.5, 1.0)
	if err != nil {
		return err
	}
	gb.NEstimators = n
	gb.LearningRate = lr
	gb.MaxDepth = depth
	gb.Subsample = subsample
	return nil
}

// Fit runs the boosting rounds.
func (gb *GradientBoostingRegressor) Fit(X, y mat.Matrix) error {
	const op = "GradientBoostingRegressor.Fit"
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
	if gb.NEstimators < 1 {
		return errors.NewValueError(op, "need at least 1 estimator")
	}
	if gb.LearningRate <= 0 {
		return errors.NewValueError(op, "learning rate must be positive")
	}
	if gb.Subsample <= 0 || gb.Subsample > 1 {
		return errors.NewValueError(op, "subsample must be in (0, 1]")
	}

	gb.nFeatures = cols

	slog.Debug("fitting gradient boosting",
		canopylog.ModelNameKey, gb.Name(),
		canopylog.OperationKey, "fit",
		canopylog.SamplesKey, rows,
		canopylog.FeaturesKey, cols,
	)

	var sum float64
	for i := 0; i < rows; i++ {
		sum += y.At(i, 0)
	}
	gb.init = sum / float64(rows)

	// Running prediction and residual for every training row.
	current := make([]float64, rows)
	for i := range current {
		current[i] = gb.init
	}

	rng := rand.New(rand.NewPCG(gb.RandomState, gb.RandomState))
	gb.trees = make([]*tree.Regressor, 0, gb.NEstimators)

	nSub := int(float64(rows) * gb.Subsample)
	if nSub < 1 {
		nSub = 1
	}

	for round := 0; round < gb.NEstimators; round++ {
		rowIdx := make([]int, rows)
		for i := range rowIdx {
			rowIdx[i] = i
		}
		if nSub < rows {
			rng.Shuffle(rows, func(i, j int) {
				rowIdx[i], rowIdx[j] = rowIdx[j], rowIdx[i]
			})
			rowIdx = rowIdx[:nSub]
		}

		Xr := mat.NewDense(len(rowIdx), cols, nil)
		resid := mat.NewDense(len(rowIdx), 1, nil)
		for i, src := range rowIdx {
			for j := 0; j < cols; j++ {
				Xr.Set(i, j, X.At(src, j))
			}
			resid.Set(i, 0, y.At(src, 0)-current[src])
		}

		t := tree.NewRegressor(
			tree.WithMaxDepth(gb.MaxDepth),
			tree.WithSeed(gb.RandomState+uint64(round)),
		)
		if err := t.Fit(Xr, resid); err != nil {
			return errors.Wrap(err, "canopy: GradientBoostingRegressor.Fit: round fit failed")
		}
		gb.trees = append(gb.trees, t)

		pred, err := t.Predict(X)
		if err != nil {
			return err
		}
		for i := 0; i < rows; i++ {
			current[i] += gb.LearningRate * pred.At(i, 0)
		}
	}

	gb.SetFitted()
	return nil
}

// Predict sums the shrunken tree outputs on top of the initial mean.
func (gb *GradientBoostingRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !gb.IsFitted() {
		return nil, errors.NewNotFittedError("GradientBoostingRegressor", "Predict")
	}
	rows, cols := X.Dims()
	if cols != gb.nFeatures {
		return nil, errors.NewDimensionError("GradientBoostingRegressor.Predict", gb.nFeatures, cols, 1)
	}

	result := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		result.Set(i, 0, gb.init)
	}
	for _, t := range gb.trees {
		pred, err := t.Predict(X)
		if err != nil {
			return nil, err
		}
		for i := 0; i < rows; i++ {
			result.Set(i, 0, result.At(i, 0)+gb.LearningRate*pred.At(i, 0))
		}
	}
	return result, nil
}
