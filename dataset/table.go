// Package dataset loads forest stand inventory tables and prepares
// train/test partitions for the regression pipeline.
package dataset

import (
	"github.com/forestml/canopy/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Table holds a feature matrix, the crown closure target vector and the
// feature names, one row per forest stand.
type Table struct {
	x     *mat.Dense
	y     *mat.VecDense
	names []string
}

// NewTable builds a table from a feature matrix and target vector. Row
// counts must agree and the number of names must match the feature columns.
func NewTable(x *mat.Dense, y *mat.VecDense, names []string) (*Table, error) {
	const op = "dataset.NewTable"
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewInvalidInputError(op, "empty feature matrix")
	}
	if y.Len() != r {
		return nil, errors.NewDimensionError(op, r, y.Len(), 0)
	}
	if len(names) != c {
		return nil, errors.NewDimensionError(op, c, len(names), 1)
	}
	if err := errors.CheckFiniteMatrix(op, x, r, c); err != nil {
		return nil, err
	}
	if err := errors.CheckFinite(op, y.RawVector().Data); err != nil {
		return nil, err
	}
	return &Table{x: x, y: y, names: names}, nil
}

// Features returns the feature matrix.
func (t *Table) Features() *mat.Dense {
	return t.x
}

// Targets returns the target vector.
func (t *Table) Targets() *mat.VecDense {
	return t.y
}

// TargetSlice returns a copy of the target values as a slice.
func (t *Table) TargetSlice() []float64 {
	out := make([]float64, t.y.Len())
	for i := range out {
		out[i] = t.y.AtVec(i)
	}
	return out
}

// FeatureNames returns the ordered feature column names.
func (t *Table) FeatureNames() []string {
	return t.names
}

// Len returns the number of rows.
func (t *Table) Len() int {
	r, _ := t.x.Dims()
	return r
}

// NumFeatures returns the number of feature columns.
func (t *Table) NumFeatures() int {
	_, c := t.x.Dims()
	return c
}

// Subset returns a new table containing the given rows in order.
func (t *Table) Subset(rows []int) (*Table, error) {
	const op = "dataset.Subset"
	if len(rows) == 0 {
		return nil, errors.NewInvalidInputError(op, "empty row selection")
	}
	_, c := t.x.Dims()
	x := mat.NewDense(len(rows), c, nil)
	y := mat.NewVecDense(len(rows), nil)
	for i, row := range rows {
		if row < 0 || row >= t.Len() {
			return nil, errors.NewInvalidInputErrorf(op, "row index %d out of range [0, %d)", row, t.Len())
		}
		for j := 0; j < c; j++ {
			x.Set(i, j, t.x.At(row, j))
		}
		y.SetVec(i, t.y.AtVec(row))
	}
	return &Table{x: x, y: y, names: t.names}, nil
}
