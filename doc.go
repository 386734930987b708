// Package canopy estimates forest crown closure from stand attributes.
//
// The pipeline trains several regressors on inventory features such as
// basal area, stem density, stand age and top height, evaluates each on
// a held-out split, and selects the model with the lowest mean squared
// error. A model is judged against a baseline equal to the standard
// deviation of the target: predicting the mean everywhere has an RMSE
// of exactly that value, so a useful model must come in below it.
//
// # Quick start
//
//	table, err := dataset.LoadFile("stands.csv", dataset.NewDefaultLoadOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pipe, err := canopy.NewPipeline(canopy.NewDefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	results, err := pipe.Run(table)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("best model:", results.Best)
//
// The evaluation package is usable on its own for scoring predictions
// produced elsewhere; the report package renders results as charts,
// JSON and text.
package canopy
