package canopy

// SplitOptions controls the train/test partition.
type SplitOptions struct {
	TestFraction float64
	Seed         uint64
}

// PCAOptions controls the dimensionality reduction stage. NComponents
// overrides VarianceThreshold when positive.
type PCAOptions struct {
	Enabled           bool
	VarianceThreshold float64
	NComponents       int
}

// AugmentOptions controls Gaussian resampling of the training split.
// Factor 0 disables augmentation.
type AugmentOptions struct {
	Factor        int
	NoiseStd      float64
	PerturbTarget bool
	Seed          uint64
}

// TuneOptions controls randomized hyperparameter search. When disabled
// every model trains with its defaults.
type TuneOptions struct {
	Enabled bool
	NTrials int
	Folds   int
	Seed    int64
}

// ModelOptions selects which regressors compete on the score board.
type ModelOptions struct {
	RandomForest     bool
	GradientBoosting bool
	SVR              bool
}

// Options configures a Pipeline. Zero value is not usable; start from
// NewDefaultOptions.
type Options struct {
	Split   SplitOptions
	Scale   bool
	PCA     PCAOptions
	Augment AugmentOptions
	Models  ModelOptions
	Tune    TuneOptions

	// Seed drives model fitting. Stage seeds derive from it so a run
	// is reproducible end to end.
	Seed uint64
}

// NewDefaultOptions returns the standard configuration: 80/20 split,
// scaling plus 95 percent variance PCA, no augmentation, all three
// models, tuning off.
func NewDefaultOptions() *Options {
	return &Options{
		Split: SplitOptions{
			TestFraction: 0.2,
			Seed:         42,
		},
		Scale: true,
		PCA: PCAOptions{
			Enabled:           true,
			VarianceThreshold: 0.95,
		},
		Augment: AugmentOptions{
			Factor:   0,
			NoiseStd: 0.05,
			Seed:     42,
		},
		Models: ModelOptions{
			RandomForest:     true,
			GradientBoosting: true,
			SVR:              true,
		},
		Tune: TuneOptions{
			Enabled: false,
			NTrials: 20,
			Folds:   5,
			Seed:    42,
		},
		Seed: 42,
	}
}
