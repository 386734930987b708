package evaluation

// Verdict is the three-way classification of a model score against the
// baseline. Callers render it as descriptive text; it is not a numeric score.
type Verdict int

const (
	// Poor means the model's RMSE exceeds the baseline deviation: the model
	// is worse than always predicting the mean.
	Poor Verdict = iota
	// Neutral means the RMSE exactly equals the baseline deviation.
	Neutral
	// Good means the RMSE is below the baseline deviation.
	Good
)

// String returns the lowercase name of the verdict.
func (v Verdict) String() string {
	switch v {
	case Good:
		return "good"
	case Neutral:
		return "neutral"
	default:
		return "poor"
	}
}

// Classify compares a score's RMSE against the baseline deviation using
// exact comparison, with no tolerance applied.
func Classify(score ModelScore, baseline Baseline) Verdict {
	switch {
	case score.RMSE < baseline.Std:
		return Good
	case score.RMSE == baseline.Std:
		return Neutral
	default:
		return Poor
	}
}
