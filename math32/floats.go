// Package math32 provides the float32 vector math used by the store:
// dot products and L2 normalization.
package math32

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrEmptyVector is returned when a zero-length vector is normalized.
	ErrEmptyVector = errors.New("math32: cannot normalize an empty vector")

	// ErrZeroVector is returned when a vector with zero magnitude is normalized.
	ErrZeroVector = errors.New("math32: cannot normalize a zero vector")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Dot calculates the dot product of two vectors.
// For unit-length vectors this equals their cosine similarity.
func Dot(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, &ErrDimensionMismatch{Expected: len(a), Actual: len(b)}
	}
	return dot(a, b), nil
}

// dot is the unchecked kernel for callers that guarantee equal lengths.
func dot(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

// Norm returns the L2 magnitude of v.
func Norm(v []float32) float32 {
	return float32(math.Sqrt(float64(dot(v, v))))
}

// NormalizeL2InPlace L2-normalizes v in place so its magnitude becomes 1.
func NormalizeL2InPlace(v []float32) error {
	if len(v) == 0 {
		return ErrEmptyVector
	}

	norm := Norm(v)
	if norm == 0 {
		return ErrZeroVector
	}

	scaleInPlace(v, 1/norm)

	return nil
}

// NormalizeL2Copy returns a unit-length copy of src, leaving src untouched.
func NormalizeL2Copy(src []float32) ([]float32, error) {
	dst := slices.Clone(src)
	if err := NormalizeL2InPlace(dst); err != nil {
		return nil, err
	}

	return dst, nil
}

func scaleInPlace(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}
