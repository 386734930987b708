package report

import (
	"io"

	"github.com/forestml/canopy/evaluation"
	"github.com/forestml/canopy/pkg/errors"
	"github.com/goccy/go-json"
)

// ModelReport is one model's entry in the JSON report.
type ModelReport struct {
	Model   string  `json:"model"`
	MSE     float64 `json:"mse"`
	RMSE    float64 `json:"rmse"`
	Verdict string  `json:"verdict"`
}

// Report is the machine-readable evaluation summary.
type Report struct {
	Baseline  float64       `json:"baseline_std"`
	BestModel string        `json:"best_model"`
	Models    []ModelReport `json:"models"`
}

// NewReport assembles the report from a score board and baseline.
// Model order follows the board's insertion order.
func NewReport(board *evaluation.ScoreBoard, baseline evaluation.Baseline) (*Report, error) {
	if board == nil || board.Len() == 0 {
		return nil, errors.NewEmptyScoreBoardError("report.NewReport")
	}
	best, err := board.SelectBest()
	if err != nil {
		return nil, err
	}

	scores := board.Scores()
	models := make([]ModelReport, 0, len(scores))
	for _, s := range scores {
		models = append(models, ModelReport{
			Model:   s.Model,
			MSE:     s.MSE,
			RMSE:    s.RMSE,
			Verdict: evaluation.Classify(s, baseline).String(),
		})
	}

	return &Report{
		Baseline:  baseline.Std,
		BestModel: best,
		Models:    models,
	}, nil
}

// WriteJSON encodes the report with indentation.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "encode report failed")
	}
	return nil
}
