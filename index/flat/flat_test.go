package flat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_ThresholdAndOrder(t *testing.T) {
	idx := New()
	err := idx.Build(
		[]int64{1, 2, 3},
		[][]float32{{1, 0}, {0, 1}, {1, 1}},
	)
	require.NoError(t, err)

	ids, scores, err := idx.Query([]float32{1, 0}, 0, 0.5)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 3}, ids)
	assert.InDelta(t, 1.0, scores[0], 1e-6)
	assert.InDelta(t, 0.70710678, scores[1], 1e-6)

	ids, _, err = idx.Query([]float32{1, 0}, 0, 0.99)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestQuery_KLimit(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Build(
		[]int64{1, 2, 3},
		[][]float32{{1, 0}, {0.9, 0.1}, {0.5, 0.5}},
	))

	ids, _, err := idx.Query([]float32{1, 0}, 2, -1)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Equal(t, int64(1), ids[0])
}

func TestQuery_ZeroVectorsScoreZero(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Build(
		[]int64{1, 2},
		[][]float32{{0, 0}, {1, 0}},
	))

	// Zero stored vector scores 0, excluded by a 0 threshold (strict).
	ids, _, err := idx.Query([]float32{1, 0}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)

	// With a negative threshold the zero vector is included at score 0.
	ids, scores, err := idx.Query([]float32{1, 0}, 0, -0.5)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 1}, ids)
	assert.Zero(t, scores[1])
}

func TestQuery_DimensionMismatch(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Build([]int64{1}, [][]float32{{1, 0}}))

	_, _, err := idx.Query([]float32{1, 0, 0}, 0, 0)
	assert.Error(t, err)
}

func TestBuild_InconsistentDims(t *testing.T) {
	idx := New()
	err := idx.Build([]int64{1, 2}, [][]float32{{1, 0}, {1, 0, 0}})
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Build(
		[]int64{10, 20},
		[][]float32{{1, 0, 0}, {0, 1, 0}},
	))

	data, err := idx.MarshalBinary()
	require.NoError(t, err)

	restored := New()
	require.NoError(t, restored.UnmarshalBinary(data))

	ids, scores, err := restored.Query([]float32{1, 0, 0}, 0, 0.5)
	require.NoError(t, err)
	require.Equal(t, []int64{10}, ids)
	assert.InDelta(t, 1.0, scores[0], 1e-6)
}

func TestUnmarshal_Truncated(t *testing.T) {
	idx := New()
	assert.Error(t, idx.UnmarshalBinary([]byte{1, 2, 3}))
}
