// Package tune provides k-fold cross-validation and randomized
// hyperparameter search for the pipeline's regressors.
package tune

import (
	"math"
	"math/rand/v2"

	"github.com/forestml/canopy/core/model"
	"github.com/forestml/canopy/metrics"
	"github.com/forestml/canopy/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Fold holds the train and test row indices for one cross-validation fold.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold splits samples into k folds. Fold sizes differ by at most one
// when the sample count is not divisible by k.
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    uint64
}

// NewKFold creates a splitter. Fewer than 2 splits falls back to 5.
func NewKFold(nSplits int, shuffle bool, seed uint64) *KFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &KFold{
		NSplits: nSplits,
		Shuffle: shuffle,
		Seed:    seed,
	}
}

// Split generates the folds for n samples. Every index appears in
// exactly one test fold.
func (kf *KFold) Split(nSamples int) ([]Fold, error) {
	if nSamples < kf.NSplits {
		return nil, errors.NewValueError("KFold.Split", "more splits than samples")
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		r := newRand(kf.Seed)
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.NSplits)
	foldSize := nSamples / kf.NSplits
	remainder := nSamples % kf.NSplits

	current := 0
	for i := 0; i < kf.NSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		testIndices := make([]int, testSize)
		copy(testIndices, indices[current:current+testSize])

		trainIndices := make([]int, 0, nSamples-testSize)
		trainIndices = append(trainIndices, indices[:current]...)
		trainIndices = append(trainIndices, indices[current+testSize:]...)

		folds[i] = Fold{
			TrainIndices: trainIndices,
			TestIndices:  testIndices,
		}
		current += testSize
	}

	return folds, nil
}

// CrossValRMSE fits a fresh model per fold and returns the mean holdout
// RMSE across folds. The factory must return an unfitted estimator with
// the hyperparameters under evaluation.
func CrossValRMSE(factory func() model.Regressor, X, y mat.Matrix, kf *KFold) (float64, error) {
	rows, _ := X.Dims()
	folds, err := kf.Split(rows)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, fold := range folds {
		Xtr, ytr := takeRows(X, y, fold.TrainIndices)
		Xte, yte := takeRows(X, y, fold.TestIndices)

		est := factory()
		if err := est.Fit(Xtr, ytr); err != nil {
			return 0, errors.Wrap(err, "cross-validation fold fit failed")
		}
		pred, err := est.Predict(Xte)
		if err != nil {
			return 0, errors.Wrap(err, "cross-validation fold predict failed")
		}

		predVec := mat.NewVecDense(len(fold.TestIndices), nil)
		for i := range fold.TestIndices {
			predVec.SetVec(i, pred.At(i, 0))
		}
		mse, err := metrics.MSE(yte, predVec)
		if err != nil {
			return 0, err
		}
		total += math.Sqrt(mse)
	}

	return total / float64(len(folds)), nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func takeRows(X, y mat.Matrix, idx []int) (*mat.Dense, *mat.VecDense) {
	_, cols := X.Dims()
	Xs := mat.NewDense(len(idx), cols, nil)
	ys := mat.NewVecDense(len(idx), nil)
	for i, row := range idx {
		for j := 0; j < cols; j++ {
			Xs.Set(i, j, X.At(row, j))
		}
		ys.SetVec(i, y.At(row, 0))
	}
	return Xs, ys
}
