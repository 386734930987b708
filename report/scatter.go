package report

import (
	"github.com/forestml/canopy/evaluation"
	"github.com/forestml/canopy/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ScatterPredictions plots predicted against actual values with an
// identity line for reference. Points on the line are perfect
// predictions.
func ScatterPredictions(title string, ps *evaluation.PredictionSet) (*plot.Plot, error) {
	if ps == nil || ps.Len() == 0 {
		return nil, errors.NewInvalidInputError("report.ScatterPredictions", "empty prediction set")
	}

	actual := ps.Actual()
	predicted := ps.Predicted()

	pts := make(plotter.XYs, len(actual))
	lo, hi := actual[0], actual[0]
	for i := range actual {
		pts[i] = plotter.XY{X: actual[i], Y: predicted[i]}
		for _, v := range []float64{actual[i], predicted[i]} {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "actual crown closure"
	p.Y.Label.Text = "predicted crown closure"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "scatter plot failed")
	}
	scatter.GlyphStyle.Radius = vg.Points(2)

	identity, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return nil, errors.Wrap(err, "identity line failed")
	}

	p.Add(plotter.NewGrid(), scatter, identity)
	p.Legend.Add("predictions", scatter)
	p.Legend.Add("identity", identity)
	return p, nil
}

// SavePNG writes the plot as a PNG image.
func SavePNG(p *plot.Plot, path string) error {
	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrap(err, "save plot failed")
	}
	return nil
}
