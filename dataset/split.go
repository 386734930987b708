package dataset

import (
	"math/rand/v2"

	"github.com/forestml/canopy/pkg/errors"
)

// TrainTestSplit shuffles the table rows with the given seed and splits them
// into a training and test partition. testFraction must sit strictly inside
// (0, 1) and both partitions must end up non-empty.
func TrainTestSplit(t *Table, testFraction float64, seed uint64) (train, test *Table, err error) {
	const op = "dataset.TrainTestSplit"
	if t == nil || t.Len() == 0 {
		return nil, nil, errors.NewInvalidInputError(op, "empty table")
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.NewValueError(op, "testFraction must be in (0, 1)")
	}

	n := t.Len()
	nTest := int(float64(n) * testFraction)
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		return nil, nil, errors.NewValueError(op, "test fraction leaves no training rows")
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	test, err = t.Subset(indices[:nTest])
	if err != nil {
		return nil, nil, err
	}
	train, err = t.Subset(indices[nTest:])
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}
