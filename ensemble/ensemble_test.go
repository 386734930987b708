package ensemble

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// syntheticStands builds a smooth target over two features with mild noise,
// in the value range of crown closure percentages.
func syntheticStands(n int, seed uint64) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(seed, seed))
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		basal := rng.Float64() * 50
		density := rng.Float64() * 2000
		X.Set(i, 0, basal)
		X.Set(i, 1, density)
		y.Set(i, 0, 20+1.2*basal+0.01*density+rng.NormFloat64()*0.5)
	}
	return X, y
}

func trainRMSE(t *testing.T, pred, y mat.Matrix) float64 {
	t.Helper()
	rows, _ := y.Dims()
	var sum float64
	for i := 0; i < rows; i++ {
		diff := y.At(i, 0) - pred.At(i, 0)
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(rows))
}

func TestRandomForestFitPredict(t *testing.T) {
	X, y := syntheticStands(200, 1)

	rf := NewRandomForestRegressor().WithNEstimators(50).WithRandomState(7)
	require.NoError(t, rf.Fit(X, y))

	pred, err := rf.Predict(X)
	require.NoError(t, err)

	rmse := trainRMSE(t, pred, y)
	assert.Less(t, rmse, 5.0, "forest should fit the training surface closely")
}

func TestRandomForestDeterministicUnderSeed(t *testing.T) {
	X, y := syntheticStands(100, 2)

	rf1 := NewRandomForestRegressor().WithNEstimators(20).WithRandomState(3)
	require.NoError(t, rf1.Fit(X, y))
	rf2 := NewRandomForestRegressor().WithNEstimators(20).WithRandomState(3)
	require.NoError(t, rf2.Fit(X, y))

	p1, err := rf1.Predict(X)
	require.NoError(t, err)
	p2, err := rf2.Predict(X)
	require.NoError(t, err)

	rows, _ := p1.Dims()
	for i := 0; i < rows; i++ {
		assert.Equal(t, p1.At(i, 0), p2.At(i, 0), "row %d differs between identical seeds", i)
	}
}

func TestRandomForestPredictBeforeFit(t *testing.T) {
	rf := NewRandomForestRegressor()
	_, err := rf.Predict(mat.NewDense(1, 2, []float64{1, 2}))
	assert.Error(t, err)
}

func TestRandomForestValidation(t *testing.T) {
	X, y := syntheticStands(10, 4)

	rf := NewRandomForestRegressor().WithNEstimators(0)
	assert.Error(t, rf.Fit(X, y), "zero estimators must be rejected")

	rf = NewRandomForestRegressor()
	yBad := mat.NewDense(5, 1, nil)
	assert.Error(t, rf.Fit(X, yBad), "row mismatch must be rejected")
}

func TestGradientBoostingFitPredict(t *testing.T) {
	X, y := syntheticStands(200, 5)

	gb := NewGradientBoostingRegressor().WithNEstimators(100).WithLearningRate(0.1).WithRandomState(7)
	require.NoError(t, gb.Fit(X, y))

	pred, err := gb.Predict(X)
	require.NoError(t, err)

	rmse := trainRMSE(t, pred, y)
	assert.Less(t, rmse, 3.0, "booster should drive training error down")
}

func TestGradientBoostingImprovesOverMean(t *testing.T) {
	X, y := syntheticStands(150, 6)

	// Baseline: squared error of predicting the training mean.
	rows, _ := y.Dims()
	var mean float64
	for i := 0; i < rows; i++ {
		mean += y.At(i, 0)
	}
	mean /= float64(rows)
	var sum float64
	for i := 0; i < rows; i++ {
		diff := y.At(i, 0) - mean
		sum += diff * diff
	}
	meanRMSE := math.Sqrt(sum / float64(rows))

	gb := NewGradientBoostingRegressor().WithNEstimators(50)
	require.NoError(t, gb.Fit(X, y))
	pred, err := gb.Predict(X)
	require.NoError(t, err)

	assert.Less(t, trainRMSE(t, pred, y), meanRMSE)
}

func TestGradientBoostingSubsample(t *testing.T) {
	X, y := syntheticStands(100, 8)

	gb := NewGradientBoostingRegressor().WithNEstimators(30)
	gb.Subsample = 0.7
	require.NoError(t, gb.Fit(X, y))

	pred, err := gb.Predict(X)
	require.NoError(t, err)
	rows, _ := pred.Dims()
	assert.Equal(t, 100, rows)
}

func TestGradientBoostingValidation(t *testing.T) {
	X, y := syntheticStands(10, 9)

	gb := NewGradientBoostingRegressor()
	gb.LearningRate = 0
	assert.Error(t, gb.Fit(X, y))

	gb = NewGradientBoostingRegressor()
	gb.Subsample = 1.5
	assert.Error(t, gb.Fit(X, y))

	gb = NewGradientBoostingRegressor()
	_, err := gb.Predict(mat.NewDense(1, 2, []float64{1, 2}))
	assert.Error(t, err)
}

func TestEstimatorNames(t *testing.T) {
	assert.Equal(t, "random_forest", NewRandomForestRegressor().Name())
	assert.Equal(t, "gradient_boosting", NewGradientBoostingRegressor().Name())
}
