// Package tree implements a CART regression tree with variance-reduction
// splits. It is the base learner for the ensemble package.
package tree

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/forestml/canopy/core/model"
	"github.com/forestml/canopy/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Regressor is a single regression tree. Splits minimize the weighted sum
// of squared errors of the two children.
type Regressor struct {
	model.BaseEstimator

	maxDepth       int
	minLeafSamples int
	maxFeatures    int // 0 means all features
	seed           uint64

	root      *node
	nFeatures int
}

type node struct {
	left, right *node
	feature     int
	threshold   float64
	value       float64 // leaf prediction: mean of targets in the leaf
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

// Option configures a Regressor.
type Option func(*Regressor)

// WithMaxDepth limits the tree depth. Depth 1 produces a stump.
func WithMaxDepth(depth int) Option {
	return func(r *Regressor) {
		r.maxDepth = depth
	}
}

// WithMinLeafSamples sets the minimum number of samples in a leaf.
func WithMinLeafSamples(n int) Option {
	return func(r *Regressor) {
		r.minLeafSamples = n
	}
}

// WithMaxFeatures limits how many features are considered per split. Used
// by random forests for decorrelation; 0 considers all features.
func WithMaxFeatures(n int) Option {
	return func(r *Regressor) {
		r.maxFeatures = n
	}
}

// WithSeed fixes the feature subsampling order.
func WithSeed(seed uint64) Option {
	return func(r *Regressor) {
		r.seed = seed
	}
}

// NewRegressor creates a regression tree. Defaults: depth 6, one sample per
// leaf, all features considered at every split.
func NewRegressor(opts ...Option) *Regressor {
	r := &Regressor{
		maxDepth:       6,
		minLeafSamples: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name identifies the estimator.
func (r *Regressor) Name() string {
	return "decision_tree"
}

// Fit builds the tree from the training data.
func (r *Regressor) Fit(X, y mat.Matrix) error {
	const op = "tree.Regressor.Fit"
	rows, cols := X.Dims()
	ry, cy := y.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ry != rows {
		return errors.NewDimensionError(op, rows, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError(op, "y must be a column vector")
	}
	if r.maxDepth < 1 {
		return errors.NewValueError(op, "max depth must be at least 1")
	}
	if r.minLeafSamples < 1 {
		return errors.NewValueError(op, "min leaf samples must be at least 1")
	}

	r.nFeatures = cols

	indices := make([]int, rows)
	for i := range indices {
		indices[i] = i
	}

	rng := rand.New(rand.NewPCG(r.seed, r.seed))
	r.root = r.build(X, y, indices, 0, rng)

	r.SetFitted()
	return nil
}

// Predict returns the leaf mean for every row.
func (r *Regressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("tree.Regressor", "Predict")
	}
	rows, cols := X.Dims()
	if cols != r.nFeatures {
		return nil, errors.NewDimensionError("tree.Regressor.Predict", r.nFeatures, cols, 1)
	}

	result := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		n := r.root
		for !n.isLeaf() {
			if X.At(i, n.feature) <= n.threshold {
				n = n.left
			} else {
				n = n.right
			}
		}
		result.Set(i, 0, n.value)
	}
	return result, nil
}

func (r *Regressor) build(X, y mat.Matrix, indices []int, depth int, rng *rand.Rand) *node {
	mean := meanTarget(y, indices)
	if depth >= r.maxDepth || len(indices) < 2*r.minLeafSamples {
		return &node{value: mean}
	}

	feature, threshold, ok := r.bestSplit(X, y, indices, rng)
	if !ok {
		return &node{value: mean}
	}

	var left, right []int
	for _, idx := range indices {
		if X.At(idx, feature) <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) < r.minLeafSamples || len(right) < r.minLeafSamples {
		return &node{value: mean}
	}

	return &node{
		feature:   feature,
		threshold: threshold,
		value:     mean,
		left:      r.build(X, y, left, depth+1, rng),
		right:     r.build(X, y, right, depth+1, rng),
	}
}

// bestSplit scans candidate features for the threshold minimizing the sum
// of squared errors of the two children. Returns ok=false when no split
// improves on the parent (all targets or feature values identical).
func (r *Regressor) bestSplit(X, y mat.Matrix, indices []int, rng *rand.Rand) (int, float64, bool) {
	features := r.candidateFeatures(rng)

	bestSSE := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0

	type pair struct {
		x, y float64
	}
	pairs := make([]pair, len(indices))

	for _, j := range features {
		for i, idx := range indices {
			pairs[i] = pair{x: X.At(idx, j), y: y.At(idx, 0)}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].x < pairs[b].x })

		// Prefix sums let each threshold be scored in constant time.
		n := len(pairs)
		var totalSum, totalSq float64
		for _, p := range pairs {
			totalSum += p.y
			totalSq += p.y * p.y
		}

		var leftSum, leftSq float64
		for i := 0; i < n-1; i++ {
			leftSum += pairs[i].y
			leftSq += pairs[i].y * pairs[i].y
			if pairs[i].x == pairs[i+1].x {
				continue
			}

			nl := float64(i + 1)
			nr := float64(n - i - 1)
			sseLeft := leftSq - leftSum*leftSum/nl
			sseRight := (totalSq - leftSq) - (totalSum-leftSum)*(totalSum-leftSum)/nr
			sse := sseLeft + sseRight

			if sse < bestSSE {
				bestSSE = sse
				bestFeature = j
				bestThreshold = (pairs[i].x + pairs[i+1].x) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func (r *Regressor) candidateFeatures(rng *rand.Rand) []int {
	features := make([]int, r.nFeatures)
	for i := range features {
		features[i] = i
	}
	if r.maxFeatures <= 0 || r.maxFeatures >= r.nFeatures {
		return features
	}
	rng.Shuffle(len(features), func(i, j int) {
		features[i], features[j] = features[j], features[i]
	})
	return features[:r.maxFeatures]
}

func meanTarget(y mat.Matrix, indices []int) float64 {
	var sum float64
	for _, idx := range indices {
		sum += y.At(idx, 0)
	}
	return sum / float64(len(indices))
}
