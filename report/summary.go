package report

import (
	"fmt"
	"strings"

	"github.com/forestml/canopy/evaluation"
	"github.com/forestml/canopy/pkg/errors"
)

// Summary writes a plain-text comparison of the scored models against
// the baseline, ending with the selected model.
func Summary(board *evaluation.ScoreBoard, baseline evaluation.Baseline) (string, error) {
	if board == nil || board.Len() == 0 {
		return "", errors.NewEmptyScoreBoardError("report.Summary")
	}
	best, err := board.SelectBest()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "baseline std: %.4f\n", baseline.Std)
	for _, s := range board.Scores() {
		verdict := evaluation.Classify(s, baseline)
		fmt.Fprintf(&sb, "%-16s mse=%.4f rmse=%.4f verdict=%s\n",
			s.Model, s.MSE, s.RMSE, verdict)
	}
	fmt.Fprintf(&sb, "best model: %s\n", best)
	return sb.String(), nil
}
