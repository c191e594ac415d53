// Package index defines a generic vector index seam. The similarity
// semantics live in the vector package; an index only decides how candidates
// are ranked and pruned. Approximate strategies can be plugged in behind the
// same interface without touching the stores.
package index

// Index is a vector index over (id, embedding) pairs. It supports building
// from scratch, thresholded kNN queries, and binary serialization for
// persistence.
type Index interface {
	// Build constructs the index from the given ids and vectors.
	// ids and vectors must have the same length; all vectors must share one
	// dimension.
	Build(ids []int64, vectors [][]float32) error

	// Query returns up to k matches whose cosine similarity to query is
	// strictly greater than threshold, as parallel slices ordered by
	// descending similarity. k <= 0 means no limit.
	Query(query []float32, k int, threshold float64) (ids []int64, scores []float64, err error)

	// MarshalBinary serializes the index into a byte slice.
	MarshalBinary() ([]byte, error)

	// UnmarshalBinary reconstructs the index from a serialized byte slice.
	UnmarshalBinary(data []byte) error
}
