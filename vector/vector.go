package vector

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch reports a similarity computation over vectors of
// different lengths. Comparisons never silently truncate.
var ErrDimensionMismatch = errors.New("vector: dimension mismatch")

// ErrEmptyVector reports a similarity computation over zero-length vectors.
var ErrEmptyVector = errors.New("vector: empty vector")

// CosineSimilarity computes the cosine similarity between two vectors:
// dot(a,b) / (||a|| * ||b||), accumulated in float64.
//
// Vectors of different lengths or zero length yield an error. A
// zero-magnitude vector on either side is not an error: the similarity is 0
// by convention.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, ErrEmptyVector
	}
	var dot, na2, nb2 float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2)), nil
}

// L2Distance computes the Euclidean (L2) distance between two vectors. It
// returns an error if the vectors have different lengths.
func L2Distance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
