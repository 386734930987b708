package augment

import (
	"math"
	"testing"

	"github.com/forestml/canopy/dataset"
	"gonum.org/v1/gonum/mat"
)

func newStandTable(t *testing.T) *dataset.Table {
	t.Helper()
	x := mat.NewDense(5, 2, []float64{
		32.5, 1200,
		18.0, 800,
		41.2, 1500,
		25.7, 950,
		29.3, 1050,
	})
	y := mat.NewVecDense(5, []float64{68.5, 42.0, 81.3, 55.9, 60.2})
	table, err := dataset.NewTable(x, y, []string{"basal_area", "stem_density"})
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return table
}

func TestAugmentAddsRows(t *testing.T) {
	table := newStandTable(t)

	resampler := NewGaussianResampler(42)
	resampler.Factor = 2

	augmented, err := resampler.Augment(table)
	if err != nil {
		t.Fatalf("Augment() error = %v", err)
	}
	if augmented.Len() != 15 {
		t.Errorf("Len() = %d, want 15 (5 original + 2×5 synthetic)", augmented.Len())
	}

	// Original rows come first, untouched.
	for i := 0; i < table.Len(); i++ {
		for j := 0; j < table.NumFeatures(); j++ {
			if augmented.Features().At(i, j) != table.Features().At(i, j) {
				t.Errorf("original row %d modified", i)
			}
		}
	}
}

func TestAugmentDeterministicUnderSeed(t *testing.T) {
	table := newStandTable(t)

	a1, err := NewGaussianResampler(7).Augment(table)
	if err != nil {
		t.Fatalf("Augment() error = %v", err)
	}
	a2, err := NewGaussianResampler(7).Augment(table)
	if err != nil {
		t.Fatalf("Augment() error = %v", err)
	}

	for i := 0; i < a1.Len(); i++ {
		if a1.Targets().AtVec(i) != a2.Targets().AtVec(i) {
			t.Fatal("same seed produced different augmentations")
		}
		for j := 0; j < a1.NumFeatures(); j++ {
			if a1.Features().At(i, j) != a2.Features().At(i, j) {
				t.Fatal("same seed produced different augmentations")
			}
		}
	}
}

func TestAugmentNoiseIsBounded(t *testing.T) {
	table := newStandTable(t)

	resampler := NewGaussianResampler(11)
	resampler.Factor = 20
	resampler.NoiseStd = 0.1
	resampler.Clip = 2.0

	augmented, err := resampler.Augment(table)
	if err != nil {
		t.Fatalf("Augment() error = %v", err)
	}

	// Every synthetic value must sit within Clip·NoiseStd·σ of some
	// original value for its column.
	for j := 0; j < table.NumFeatures(); j++ {
		var mean, sumSq float64
		n := table.Len()
		for i := 0; i < n; i++ {
			mean += table.Features().At(i, j)
		}
		mean /= float64(n)
		for i := 0; i < n; i++ {
			diff := table.Features().At(i, j) - mean
			sumSq += diff * diff
		}
		std := math.Sqrt(sumSq / float64(n))
		maxNoise := resampler.Clip*resampler.NoiseStd*std + 1e-9

		for i := n; i < augmented.Len(); i++ {
			v := augmented.Features().At(i, j)
			closest := math.Inf(1)
			for k := 0; k < n; k++ {
				d := math.Abs(v - table.Features().At(k, j))
				if d < closest {
					closest = d
				}
			}
			if closest > maxNoise {
				t.Errorf("synthetic value %v in column %d is %v from nearest original, bound %v", v, j, closest, maxNoise)
			}
		}
	}
}

func TestAugmentPerturbedTargetStaysInRange(t *testing.T) {
	table := newStandTable(t)

	resampler := NewGaussianResampler(13)
	resampler.Factor = 50
	resampler.NoiseStd = 2.0 // exaggerated noise to push at the clamp
	resampler.PerturbTarget = true

	augmented, err := resampler.Augment(table)
	if err != nil {
		t.Fatalf("Augment() error = %v", err)
	}
	for i := 0; i < augmented.Len(); i++ {
		v := augmented.Targets().AtVec(i)
		if v < 0 || v > 100 {
			t.Errorf("target %v outside crown closure percentage range", v)
		}
	}
}

func TestAugmentFactorZeroReturnsInput(t *testing.T) {
	table := newStandTable(t)
	resampler := NewGaussianResampler(1)
	resampler.Factor = 0

	augmented, err := resampler.Augment(table)
	if err != nil {
		t.Fatalf("Augment() error = %v", err)
	}
	if augmented != table {
		t.Error("Factor = 0 should return the input table unchanged")
	}
}

func TestAugmentEmptyTable(t *testing.T) {
	if _, err := NewGaussianResampler(1).Augment(nil); err == nil {
		t.Fatal("Augment(nil): expected error")
	}
}
