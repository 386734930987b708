package canopy

import (
	"github.com/forestml/canopy/evaluation"
)

// Results carries the outcome of a pipeline run: the per-model scores
// on the held-out split, the baseline, the selected model and the
// verdict of each model against the baseline.
type Results struct {
	Board    *evaluation.ScoreBoard
	Baseline evaluation.Baseline
	Best     string
	Verdicts map[string]evaluation.Verdict

	// Predictions holds each model's held-out prediction set, keyed by
	// model name, for plotting and reporting.
	Predictions map[string]*evaluation.PredictionSet

	TrainRows int
	TestRows  int
}

// BestScore returns the score of the selected model.
func (r *Results) BestScore() (evaluation.ModelScore, bool) {
	return r.Board.Lookup(r.Best)
}

// BestVerdict classifies the selected model against the baseline.
func (r *Results) BestVerdict() evaluation.Verdict {
	score, ok := r.BestScore()
	if !ok {
		return evaluation.Poor
	}
	return evaluation.Classify(score, r.Baseline)
}
