// Package ensemble implements the bagged and boosted tree regressors used
// to predict crown closure.
package ensemble

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/c-bata/goptuna"
	"github.com/forestml/canopy/core/model"
	"github.com/forestml/canopy/core/parallel"
	"github.com/forestml/canopy/pkg/errors"
	canopylog "github.com/forestml/canopy/pkg/log"
	"github.com/forestml/canopy/tree"
	"gonum.org/v1/gonum/mat"
)

// RandomForestRegressor averages bootstrap-trained regression trees.
type RandomForestRegressor struct {
	model.BaseEstimator

	NEstimators    int // number of trees
	MaxDepth       int // depth limit per tree
	MinLeafSamples int // minimum samples per leaf
	MaxFeatures    int // features considered per split; 0 means sqrt(total)
	MaxWorkers     int // goroutines for tree fitting; 0 uses all cores
	RandomState    uint64

	trees     []*tree.Regressor
	nFeatures int
}

// NewRandomForestRegressor creates a forest with defaults: 100 trees of
// depth 8, sqrt-features per split.
func NewRandomForestRegressor() *RandomForestRegressor {
	return &RandomForestRegressor{
		NEstimators:    100,
		MaxDepth:       8,
		MinLeafSamples: 1,
		RandomState:    42,
	}
}

// WithNEstimators sets the number of trees.
func (rf *RandomForestRegressor) WithNEstimators(n int) *RandomForestRegressor {
	rf.NEstimators = n
	return rf
}

// WithMaxDepth sets the depth limit per tree.
func (rf *RandomForestRegressor) WithMaxDepth(d int) *RandomForestRegressor {
	rf.MaxDepth = d
	return rf
}

// WithRandomState sets the random seed.
func (rf *RandomForestRegressor) WithRandomState(seed uint64) *RandomForestRegressor {
	rf.RandomState = seed
	return rf
}

// Name identifies the estimator on score boards and in logs.
func (rf *RandomForestRegressor) Name() string {
	return "random_forest"
}

// SuggestParams samples hyperparameters from the search space for one
// tuning trial.
func (rf *RandomForestRegressor) SuggestParams(trial goptuna.Trial) error {
	n, err := trial.SuggestInt("n_estimators", 50, 300)
	if err != nil {
		return err
	}
	depth, err := trial.SuggestInt("max_depth", 4, 12)
	if err != nil {
		return err
	}
	minLeaf, err := trial.SuggestInt("min_leaf_samples", 1, 5)
	if err != nil {
		return err
	}
	rf.NEstimators = n
	rf.MaxDepth = depth
	rf.MinLeafSamples = minLeaf
	return nil
}

// Fit trains the forest. Trees are fitted in parallel; each tree owns a
// deterministic seed derived from RandomState so results do not depend on
// scheduling.
func (rf *RandomForestRegressor) Fit(X, y mat.Matrix) error {
	const op = "RandomForestRegressor.Fit"
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
	if rf.NEstimators < 1 {
		return errors.NewValueError(op, "need at least 1 estimator")
	}

	rf.nFeatures = cols
	maxFeatures := rf.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Max(1, math.Round(math.Sqrt(float64(cols)))))
	}

	slog.Debug("fitting random forest",
		canopylog.ModelNameKey, rf.Name(),
		canopylog.OperationKey, "fit",
		canopylog.SamplesKey, rows,
		canopylog.FeaturesKey, cols,
	)

	rf.trees = make([]*tree.Regressor, rf.NEstimators)
	errs := make([]error, rf.NEstimators)

	parallel.ParallelizeWithWorkers(rf.NEstimators, rf.MaxWorkers, func(start, end int) {
		for k := start; k < end; k++ {
			seed := rf.RandomState + uint64(k)
			rng := rand.New(rand.NewPCG(seed, seed))

			Xb := mat.NewDense(rows, cols, nil)
			yb := mat.NewDense(rows, 1, nil)
			for i := 0; i < rows; i++ {
				src := rng.IntN(rows)
				for j := 0; j < cols; j++ {
					Xb.Set(i, j, X.At(src, j))
				}
				yb.Set(i, 0, y.At(src, 0))
			}

			t := tree.NewRegressor(
				tree.WithMaxDepth(rf.MaxDepth),
				tree.WithMinLeafSamples(rf.MinLeafSamples),
				tree.WithMaxFeatures(maxFeatures),
				tree.WithSeed(seed),
			)
			if err := t.Fit(Xb, yb); err != nil {
				errs[k] = err
				continue
			}
			rf.trees[k] = t
		}
	})

	for _, err := range errs {
		if err != nil {
			return errors.Wrap(err, "canopy: RandomForestRegressor.Fit: tree fit failed")
		}
	}

	rf.SetFitted()
	return nil
}

// Predict averages the predictions of all trees.
func (rf *RandomForestRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rf.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestRegressor", "Predict")
	}
	rows, cols := X.Dims()
	if cols != rf.nFeatures {
		return nil, errors.NewDimensionError("RandomForestRegressor.Predict", rf.nFeatures, cols, 1)
	}

	result := mat.NewDense(rows, 1, nil)
	for _, t := range rf.trees {
		pred, err := t.Predict(X)
		if err != nil {
			return nil, err
		}
		for i := 0; i < rows; i++ {
			result.Set(i, 0, result.At(i, 0)+pred.At(i, 0))
		}
	}
	scale := 1.0 / float64(len(rf.trees))
	for i := 0; i < rows; i++ {
		result.Set(i, 0, result.At(i, 0)*scale)
	}
	return result, nil
}
