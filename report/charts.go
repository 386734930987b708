// Package report renders evaluation results as charts, JSON and text.
package report

import (
	"io"

	"github.com/forestml/canopy/evaluation"
	"github.com/forestml/canopy/pkg/errors"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// BarRMSE builds a bar chart of per-model RMSE with a horizontal mark
// line at the baseline standard deviation.
func BarRMSE(board *evaluation.ScoreBoard, baseline evaluation.Baseline) (*charts.Bar, error) {
	if board == nil || board.Len() == 0 {
		return nil, errors.NewEmptyScoreBoardError("report.BarRMSE")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Model RMSE",
			Subtitle: "baseline is the target standard deviation",
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "RMSE"}),
	)

	scores := board.Scores()
	names := make([]string, 0, len(scores))
	values := make([]opts.BarData, 0, len(scores))
	for _, s := range scores {
		names = append(names, s.Model)
		values = append(values, opts.BarData{Value: s.RMSE})
	}

	bar.SetXAxis(names).
		AddSeries("rmse", values).
		SetSeriesOptions(
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
				Name:  "baseline",
				YAxis: baseline.Std,
			}),
		)

	return bar, nil
}

// WriteBarRMSE renders the RMSE bar chart as a standalone HTML page.
func WriteBarRMSE(w io.Writer, board *evaluation.ScoreBoard, baseline evaluation.Baseline) error {
	bar, err := BarRMSE(board, baseline)
	if err != nil {
		return err
	}
	page := components.NewPage()
	page.AddCharts(bar)
	return page.Render(w)
}
