package errors

import (
	"math"
)

// CheckFinite returns an InvalidInputError if any value is NaN or infinite.
func CheckFinite(op string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewInvalidInputErrorf(op, "non-finite value %g at index %d", v, i)
		}
	}
	return nil
}

// CheckFiniteScalar returns an InvalidInputError if the value is NaN or infinite.
func CheckFiniteScalar(op string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewInvalidInputErrorf(op, "non-finite value %g", value)
	}
	return nil
}

// CheckFiniteMatrix returns an InvalidInputError if any element of the matrix
// is NaN or infinite.
func CheckFiniteMatrix(op string, m interface{ At(int, int) float64 }, rows, cols int) error {
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return NewInvalidInputErrorf(op, "non-finite value %g at (%d, %d)", v, i, j)
			}
		}
	}
	return nil
}
