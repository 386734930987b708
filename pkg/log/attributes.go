// Standard attribute keys for canopy pipeline logging. Using a fixed key set
// keeps stage logs filterable across load, preprocessing, training, tuning
// and evaluation.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "random_forest", "svr", "gradient_boosting"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "tune", "evaluate"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	// Examples: "dataset", "preprocessing", "tune", "evaluation"
	ComponentKey = "ml.component"
)

// Data shape.
const (
	// SamplesKey is the number of samples (rows) being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features (columns) being processed.
	FeaturesKey = "data.features"

	// ComponentsKey is the number of principal components retained.
	ComponentsKey = "data.components"
)

// Metrics and evaluation.
const (
	// MSEKey is the mean squared error of a model on the test partition.
	MSEKey = "metric.mse"

	// RMSEKey is the root mean squared error of a model on the test partition.
	RMSEKey = "metric.rmse"

	// BaselineKey is the standard deviation of the test targets.
	BaselineKey = "metric.baseline"

	// VerdictKey is the classification of a score against the baseline.
	VerdictKey = "eval.verdict"

	// BestModelKey is the identifier of the selected best model.
	BestModelKey = "eval.best_model"

	// TrialsKey is the number of hyperparameter search trials.
	TrialsKey = "tune.trials"

	// DurationKey is the wall time of an operation in milliseconds.
	DurationKey = "duration_ms"
)
