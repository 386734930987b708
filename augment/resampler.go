// Package augment inflates small stand inventory training sets by
// resampling existing rows and perturbing them with bounded Gaussian noise.
package augment

import (
	"math"
	"math/rand/v2"

	"github.com/forestml/canopy/dataset"
	"github.com/forestml/canopy/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// GaussianResampler draws bootstrap rows from the training set and adds
// zero-mean Gaussian noise scaled by each feature's standard deviation.
// Noise is clipped to ±Clip standard deviations so augmented rows stay
// inside the plausible attribute range.
type GaussianResampler struct {
	// Factor is how many synthetic rows to add per original row.
	Factor int

	// NoiseStd is the noise standard deviation as a fraction of each
	// feature's own standard deviation.
	NoiseStd float64

	// Clip bounds the noise at ±Clip feature standard deviations.
	Clip float64

	// PerturbTarget adds noise to the crown closure target as well,
	// clamped to the [0, 100] percentage range.
	PerturbTarget bool

	// Seed makes the augmentation reproducible.
	Seed uint64
}

// NewGaussianResampler returns a resampler with the stand inventory
// defaults: one synthetic row per original, 5% feature deviation noise,
// clipped at two deviations, target left untouched.
func NewGaussianResampler(seed uint64) *GaussianResampler {
	return &GaussianResampler{
		Factor:   1,
		NoiseStd: 0.05,
		Clip:     2.0,
		Seed:     seed,
	}
}

// Augment returns a new table holding the original rows followed by the
// synthetic ones. The input table is not modified.
func (g *GaussianResampler) Augment(t *dataset.Table) (*dataset.Table, error) {
	const op = "GaussianResampler.Augment"
	if t == nil || t.Len() == 0 {
		return nil, errors.NewInvalidInputError(op, "empty table")
	}
	if g.Factor < 0 {
		return nil, errors.NewValueError(op, "factor must be non-negative")
	}
	if g.NoiseStd < 0 {
		return nil, errors.NewValueError(op, "noise std must be non-negative")
	}
	if g.Factor == 0 {
		return t, nil
	}

	n := t.Len()
	c := t.NumFeatures()
	X := t.Features()
	y := t.Targets()

	// Per-feature standard deviation scales the noise so features with
	// different units (stems/ha vs metres) are perturbed proportionally.
	featStd := make([]float64, c)
	targetStd := 0.0
	{
		for j := 0; j < c; j++ {
			var mean, sumSq float64
			for i := 0; i < n; i++ {
				mean += X.At(i, j)
			}
			mean /= float64(n)
			for i := 0; i < n; i++ {
				diff := X.At(i, j) - mean
				sumSq += diff * diff
			}
			featStd[j] = math.Sqrt(sumSq / float64(n))
		}
		var mean, sumSq float64
		for i := 0; i < n; i++ {
			mean += y.AtVec(i)
		}
		mean /= float64(n)
		for i := 0; i < n; i++ {
			diff := y.AtVec(i) - mean
			sumSq += diff * diff
		}
		targetStd = math.Sqrt(sumSq / float64(n))
	}

	rng := rand.New(rand.NewPCG(g.Seed, g.Seed))
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(g.Seed+1, g.Seed+1)}

	total := n * (1 + g.Factor)
	outX := mat.NewDense(total, c, nil)
	outY := mat.NewVecDense(total, nil)

	for i := 0; i < n; i++ {
		for j := 0; j < c; j++ {
			outX.Set(i, j, X.At(i, j))
		}
		outY.SetVec(i, y.AtVec(i))
	}

	for i := n; i < total; i++ {
		src := rng.IntN(n)
		for j := 0; j < c; j++ {
			noise := g.clipNoise(normal.Rand()) * g.NoiseStd * featStd[j]
			outX.Set(i, j, X.At(src, j)+noise)
		}
		target := y.AtVec(src)
		if g.PerturbTarget {
			target += g.clipNoise(normal.Rand()) * g.NoiseStd * targetStd
			target = math.Max(0, math.Min(100, target))
		}
		outY.SetVec(i, target)
	}

	return dataset.NewTable(outX, outY, t.FeatureNames())
}

func (g *GaussianResampler) clipNoise(z float64) float64 {
	if g.Clip <= 0 {
		return z
	}
	return math.Max(-g.Clip, math.Min(g.Clip, z))
}
