package canopy

import (
	"log/slog"

	"github.com/forestml/canopy/augment"
	"github.com/forestml/canopy/core/model"
	"github.com/forestml/canopy/dataset"
	"github.com/forestml/canopy/ensemble"
	"github.com/forestml/canopy/evaluation"
	"github.com/forestml/canopy/pkg/errors"
	canopylog "github.com/forestml/canopy/pkg/log"
	"github.com/forestml/canopy/preprocessing"
	"github.com/forestml/canopy/svm"
	"github.com/forestml/canopy/tune"
	"gonum.org/v1/gonum/mat"
)

// Pipeline runs the full crown closure workflow: split, preprocess,
// optionally augment and tune, fit the competing regressors, and score
// them on the held-out split.
type Pipeline struct {
	opts *Options

	scaler *preprocessing.StandardScaler
	pca    *preprocessing.PCA
	models map[string]model.Regressor
}

// NewPipeline creates a pipeline. A nil opts uses NewDefaultOptions.
func NewPipeline(opts *Options) (*Pipeline, error) {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	if !opts.Models.RandomForest && !opts.Models.GradientBoosting && !opts.Models.SVR {
		return nil, errors.NewValueError("NewPipeline", "no models enabled")
	}
	return &Pipeline{
		opts:   opts,
		models: make(map[string]model.Regressor),
	}, nil
}

// Models returns the fitted regressors by name after Run.
func (p *Pipeline) Models() map[string]model.Regressor {
	return p.models
}

// Run executes the workflow on the table and returns the evaluation
// results. The baseline is the population standard deviation of the
// held-out targets, which is the RMSE of predicting their mean.
func (p *Pipeline) Run(t *dataset.Table) (*Results, error) {
	const op = "Pipeline.Run"
	if t == nil || t.Len() == 0 {
		return nil, errors.NewInvalidInputError(op, "empty dataset")
	}

	train, test, err := dataset.TrainTestSplit(t, p.opts.Split.TestFraction, p.opts.Split.Seed)
	if err != nil {
		return nil, err
	}

	baseline, err := evaluation.NewBaseline(test.TargetSlice())
	if err != nil {
		return nil, err
	}
	slog.Info("split dataset",
		canopylog.OperationKey, "split",
		canopylog.SamplesKey, t.Len(),
		"train", train.Len(),
		"test", test.Len(),
	)

	if p.opts.Augment.Factor > 0 {
		resampler := augment.NewGaussianResampler(p.opts.Augment.Seed)
		resampler.Factor = p.opts.Augment.Factor
		resampler.NoiseStd = p.opts.Augment.NoiseStd
		resampler.PerturbTarget = p.opts.Augment.PerturbTarget
		train, err = resampler.Augment(train)
		if err != nil {
			return nil, err
		}
		slog.Info("augmented training split",
			canopylog.OperationKey, "augment",
			canopylog.SamplesKey, train.Len(),
		)
	}

	Xtrain, Xtest, err := p.preprocess(train, test)
	if err != nil {
		return nil, err
	}

	ytrain := train.Targets()

	scores := make([]evaluation.ModelScore, 0, 3)
	predictions := make(map[string]*evaluation.PredictionSet)
	verdicts := make(map[string]evaluation.Verdict)

	for _, factory := range p.factories() {
		fitted, err := p.fitModel(factory, Xtrain, ytrain)
		if err != nil {
			return nil, err
		}
		p.models[fitted.Name()] = fitted

		ps, err := holdoutPredictions(fitted, Xtest, test.TargetSlice())
		if err != nil {
			return nil, err
		}
		score, err := evaluation.Score(fitted.Name(), ps)
		if err != nil {
			return nil, err
		}

		scores = append(scores, score)
		predictions[fitted.Name()] = ps
		verdicts[fitted.Name()] = evaluation.Classify(score, baseline)

		slog.Info("scored model",
			canopylog.ModelNameKey, fitted.Name(),
			canopylog.MSEKey, score.MSE,
			canopylog.RMSEKey, score.RMSE,
			canopylog.BaselineKey, baseline.Std,
			canopylog.VerdictKey, verdicts[fitted.Name()].String(),
		)
	}

	board, err := evaluation.NewScoreBoard(scores...)
	if err != nil {
		return nil, err
	}
	best, err := board.SelectBest()
	if err != nil {
		return nil, err
	}
	slog.Info("selected best model", canopylog.BestModelKey, best)

	return &Results{
		Board:       board,
		Baseline:    baseline,
		Best:        best,
		Verdicts:    verdicts,
		Predictions: predictions,
		TrainRows:   train.Len(),
		TestRows:    test.Len(),
	}, nil
}

// preprocess fits the scaler and PCA on the training features and
// applies both to the test features.
func (p *Pipeline) preprocess(train, test *dataset.Table) (Xtrain, Xtest mat.Matrix, err error) {
	Xtrain = train.Features()
	Xtest = test.Features()

	if p.opts.Scale {
		p.scaler = preprocessing.NewStandardScalerDefault()
		Xtrain, err = p.scaler.FitTransform(Xtrain)
		if err != nil {
			return nil, nil, err
		}
		Xtest, err = p.scaler.Transform(Xtest)
		if err != nil {
			return nil, nil, err
		}
	}

	if p.opts.PCA.Enabled {
		if p.opts.PCA.NComponents > 0 {
			p.pca = preprocessing.NewPCADefault()
			p.pca.NComponents = p.opts.PCA.NComponents
		} else {
			p.pca = preprocessing.NewPCA(p.opts.PCA.VarianceThreshold)
		}
		Xtrain, err = p.pca.FitTransform(Xtrain)
		if err != nil {
			return nil, nil, err
		}
		Xtest, err = p.pca.Transform(Xtest)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("reduced dimensions",
			canopylog.OperationKey, "pca",
			canopylog.ComponentsKey, p.pca.NumComponents(),
		)
	}

	return Xtrain, Xtest, nil
}

// factories lists the enabled model constructors, each seeded from the
// pipeline seed.
func (p *Pipeline) factories() []func() tune.TunableRegressor {
	var fs []func() tune.TunableRegressor
	if p.opts.Models.RandomForest {
		fs = append(fs, func() tune.TunableRegressor {
			return ensemble.NewRandomForestRegressor().WithRandomState(p.opts.Seed)
		})
	}
	if p.opts.Models.GradientBoosting {
		fs = append(fs, func() tune.TunableRegressor {
			return ensemble.NewGradientBoostingRegressor().WithRandomState(p.opts.Seed)
		})
	}
	if p.opts.Models.SVR {
		fs = append(fs, func() tune.TunableRegressor {
			return svm.NewLinearSVR().WithRandomState(p.opts.Seed)
		})
	}
	return fs
}

// fitModel trains one regressor, running the randomized search first
// when tuning is enabled.
func (p *Pipeline) fitModel(factory func() tune.TunableRegressor, X, y mat.Matrix) (model.Regressor, error) {
	if p.opts.Tune.Enabled {
		search := tune.NewRandomizedSearch(factory)
		search.NTrials = p.opts.Tune.NTrials
		search.KFold = tune.NewKFold(p.opts.Tune.Folds, true, p.opts.Seed)
		search.Seed = p.opts.Tune.Seed
		res, err := search.Run(X, y)
		if err != nil {
			return nil, err
		}
		return res.Model, nil
	}

	m := factory()
	if err := m.Fit(X, y); err != nil {
		return nil, err
	}
	return m, nil
}

func holdoutPredictions(m model.Regressor, X mat.Matrix, actual []float64) (*evaluation.PredictionSet, error) {
	pred, err := m.Predict(X)
	if err != nil {
		return nil, err
	}
	rows, _ := pred.Dims()
	predicted := make([]float64, rows)
	for i := 0; i < rows; i++ {
		predicted[i] = pred.At(i, 0)
	}
	return evaluation.NewPredictionSet(actual, predicted)
}
