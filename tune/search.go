package tune

import (
	"log/slog"
	"math"
	"sync"

	"github.com/c-bata/goptuna"
	"github.com/forestml/canopy/core/model"
	"github.com/forestml/canopy/pkg/errors"
	canopylog "github.com/forestml/canopy/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// TunableRegressor is a regressor whose hyperparameters can be sampled
// from a search space during tuning.
type TunableRegressor interface {
	model.Regressor
	SuggestParams(trial goptuna.Trial) error
}

// SearchResult carries the outcome of a randomized search. Model is the
// best configuration refitted on the full training data.
type SearchResult struct {
	Model     TunableRegressor
	BestRMSE  float64
	Trials    int
	ModelName string
}

// RandomizedSearch samples hyperparameter configurations at random and
// scores each with k-fold cross-validation RMSE.
type RandomizedSearch struct {
	NewModel func() TunableRegressor
	NTrials  int
	KFold    *KFold
	Seed     int64

	mu       sync.Mutex
	best     TunableRegressor
	bestRMSE float64
}

// NewRandomizedSearch creates a search over the given model factory with
// defaults of 20 trials and shuffled 5-fold cross-validation.
func NewRandomizedSearch(newModel func() TunableRegressor) *RandomizedSearch {
	return &RandomizedSearch{
		NewModel: newModel,
		NTrials:  20,
		KFold:    NewKFold(5, true, 42),
		Seed:     42,
	}
}

// Run executes the search and refits the best configuration on all of
// X and y.
func (rs *RandomizedSearch) Run(X, y mat.Matrix) (*SearchResult, error) {
	const op = "RandomizedSearch.Run"
	if rs.NewModel == nil {
		return nil, errors.NewValueError(op, "no model factory")
	}
	if rs.NTrials < 1 {
		return nil, errors.NewValueError(op, "trials must be at least 1")
	}

	rs.best = nil
	rs.bestRMSE = math.Inf(1)

	name := rs.NewModel().Name()
	slog.Info("starting hyperparameter search",
		canopylog.ModelNameKey, name,
		canopylog.TrialsKey, rs.NTrials,
	)

	study, err := goptuna.CreateStudy(name,
		goptuna.StudyOptionDirection(goptuna.StudyDirectionMinimize),
		goptuna.StudyOptionSampler(goptuna.NewRandomSampler(
			goptuna.RandomSamplerOptionSeed(rs.Seed))),
		goptuna.StudyOptionLogger(nil),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create study failed")
	}

	objective := func(trial goptuna.Trial) (float64, error) {
		m := rs.NewModel()
		if err := m.SuggestParams(trial); err != nil {
			return 0, errors.Wrap(err, "suggest params failed")
		}
		rmse, err := CrossValRMSE(func() model.Regressor {
			// Repeated suggestions within a trial return the values
			// already sampled, so every fold sees the same config.
			candidate := rs.NewModel()
			_ = candidate.SuggestParams(trial)
			return candidate
		}, X, y, rs.KFold)
		if err != nil {
			return 0, err
		}

		rs.mu.Lock()
		if rmse < rs.bestRMSE {
			rs.bestRMSE = rmse
			rs.best = m
		}
		rs.mu.Unlock()
		return rmse, nil
	}

	if err := study.Optimize(objective, rs.NTrials); err != nil {
		return nil, errors.Wrap(err, "search failed")
	}
	if rs.best == nil {
		return nil, errors.NewModelError(op, "no successful trial", nil)
	}

	if err := rs.best.Fit(X, y); err != nil {
		return nil, errors.Wrap(err, "refit of best configuration failed")
	}

	slog.Info("hyperparameter search finished",
		canopylog.ModelNameKey, name,
		canopylog.RMSEKey, rs.bestRMSE,
		canopylog.TrialsKey, rs.NTrials,
	)

	return &SearchResult{
		Model:     rs.best,
		BestRMSE:  rs.bestRMSE,
		Trials:    rs.NTrials,
		ModelName: name,
	}, nil
}
