package preprocessing

import (
	"github.com/forestml/canopy/core/model"
	"github.com/forestml/canopy/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultVarianceThreshold is the fraction of variance a fitted PCA retains
// by default.
const DefaultVarianceThreshold = 0.95

// PCA projects standardized features onto the smallest leading set of
// principal components whose cumulative explained variance reaches the
// configured threshold. At least one component is always retained.
type PCA struct {
	model.BaseEstimator

	// VarianceThreshold is the minimum cumulative explained variance ratio.
	VarianceThreshold float64

	// NComponents forces a fixed number of components when > 0, bypassing
	// the variance threshold.
	NComponents int

	mean       []float64
	components *mat.Dense // d × k projection matrix
	explained  []float64  // explained variance ratio of retained components
	nFeatures  int
}

// NewPCA creates a PCA reducer retaining the given fraction of variance.
func NewPCA(varianceThreshold float64) *PCA {
	return &PCA{VarianceThreshold: varianceThreshold}
}

// NewPCADefault creates a PCA reducer with the 95% variance threshold.
func NewPCADefault() *PCA {
	return NewPCA(DefaultVarianceThreshold)
}

// Fit computes the principal components of the data and selects how many to
// retain.
func (p *PCA) Fit(X mat.Matrix) error {
	const op = "PCA.Fit"
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if r < 2 {
		return errors.NewValueError(op, "need at least 2 samples")
	}
	if p.VarianceThreshold <= 0 || p.VarianceThreshold > 1 {
		return errors.NewValueError(op, "variance threshold must be in (0, 1]")
	}
	if p.NComponents > c {
		return errors.NewDimensionError(op, c, p.NComponents, 1)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(X, nil); !ok {
		return errors.NewModelError(op, "principal component decomposition failed", nil)
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	var total float64
	for _, v := range vars {
		total += v
	}
	if total == 0 {
		return errors.NewValueError(op, "no variance in data")
	}

	k := p.NComponents
	if k <= 0 {
		cumulative := 0.0
		for i, v := range vars {
			cumulative += v / total
			if cumulative >= p.VarianceThreshold {
				k = i + 1
				break
			}
		}
		if k == 0 {
			k = len(vars)
		}
	}

	p.nFeatures = c
	p.components = mat.NewDense(c, k, nil)
	for i := 0; i < c; i++ {
		for j := 0; j < k; j++ {
			p.components.Set(i, j, vecs.At(i, j))
		}
	}

	p.explained = make([]float64, k)
	for j := 0; j < k; j++ {
		p.explained[j] = vars[j] / total
	}

	// Column means are stored so new data is centered consistently.
	p.mean = make([]float64, c)
	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += X.At(i, j)
		}
		p.mean[j] = sum / float64(r)
	}

	p.SetFitted()
	return nil
}

// Transform projects data onto the retained components.
func (p *PCA) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PCA", "Transform")
	}

	r, c := X.Dims()
	if c != p.nFeatures {
		return nil, errors.NewDimensionError("PCA.Transform", p.nFeatures, c, 1)
	}

	centered := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			centered.Set(i, j, X.At(i, j)-p.mean[j])
		}
	}

	_, k := p.components.Dims()
	result := mat.NewDense(r, k, nil)
	result.Mul(centered, p.components)
	return result, nil
}

// FitTransform fits on the data and transforms it in one call.
func (p *PCA) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// NumComponents returns the number of retained components.
func (p *PCA) NumComponents() int {
	if p.components == nil {
		return 0
	}
	_, k := p.components.Dims()
	return k
}

// ExplainedVarianceRatio returns the variance ratio of each retained
// component in order.
func (p *PCA) ExplainedVarianceRatio() []float64 {
	out := make([]float64, len(p.explained))
	copy(out, p.explained)
	return out
}
