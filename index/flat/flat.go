// Package flat provides a brute-force cosine index: an exact linear scan
// with precomputed magnitudes, accelerated by the viant/vec SIMD helpers.
package flat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/viant/vec/search"

	"github.com/simvec/simvec/index"
)

// Index is an exact, scan-based vector index.
type Index struct {
	ids  []int64
	vecs [][]float32
	dim  int
	mags []float32
}

// New returns an empty flat index.
func New() *Index { return &Index{} }

// Build loads ids and vectors and precomputes magnitudes.
func (i *Index) Build(ids []int64, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("flat: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	if len(ids) == 0 {
		i.ids, i.vecs, i.mags, i.dim = nil, nil, nil, 0
		return nil
	}
	dim := len(vectors[0])
	if dim == 0 {
		return errors.New("flat: empty vectors")
	}
	for j := range vectors {
		if len(vectors[j]) != dim {
			return fmt.Errorf("flat: inconsistent vector dims %d vs %d", len(vectors[j]), dim)
		}
	}
	mags := make([]float32, len(vectors))
	for j := range vectors {
		mags[j] = search.Float32s(vectors[j]).Magnitude()
	}
	i.ids = append([]int64(nil), ids...)
	i.vecs = append([][]float32(nil), vectors...)
	i.dim = dim
	i.mags = mags
	return nil
}

// Query scans all vectors and returns those with cosine similarity strictly
// greater than threshold, ordered by descending similarity, capped at k when
// k > 0. A zero-magnitude vector on either side of a comparison scores 0.
func (i *Index) Query(query []float32, k int, threshold float64) ([]int64, []float64, error) {
	if i.dim == 0 || len(i.vecs) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("flat: query dim %d != index dim %d", len(query), i.dim)
	}

	q := search.Float32s(query)
	qm := q.Magnitude()

	type scored struct {
		idx   int
		score float64
	}
	scoreds := make([]scored, 0, len(i.vecs))
	for j := range i.vecs {
		var s float64
		if qm != 0 && i.mags[j] != 0 {
			s = 1 - float64(q.CosineDistanceWithMagnitudesNeon(i.vecs[j], qm, i.mags[j]))
		}
		if math.IsNaN(s) || s <= threshold {
			continue
		}
		scoreds = append(scoreds, scored{idx: j, score: s})
	}
	sort.Slice(scoreds, func(a, b int) bool { return scoreds[a].score > scoreds[b].score })
	if k > 0 && k < len(scoreds) {
		scoreds = scoreds[:k]
	}

	outIDs := make([]int64, len(scoreds))
	outScores := make([]float64, len(scoreds))
	for n := range scoreds {
		outIDs[n] = i.ids[scoreds[n].idx]
		outScores[n] = scoreds[n].score
	}
	return outIDs, outScores, nil
}

// MarshalBinary stores: dim(uint32), n(uint32), then for each item:
// id(int64), vec(float32[dim]).
func (i *Index) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, 8+len(i.ids)*(8+4*i.dim))
	out = binary.LittleEndian.AppendUint32(out, uint32(i.dim))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(i.ids)))
	for idx, id := range i.ids {
		out = binary.LittleEndian.AppendUint64(out, uint64(id))
		for j := 0; j < i.dim; j++ {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(i.vecs[idx][j]))
		}
	}
	return out, nil
}

// UnmarshalBinary restores the index from bytes produced by MarshalBinary.
func (i *Index) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errors.New("flat: invalid data")
	}
	dim := int(binary.LittleEndian.Uint32(data[0:4]))
	n := int(binary.LittleEndian.Uint32(data[4:8]))
	off := 8
	want := n * (8 + 4*dim)
	if len(data)-off < want {
		return errors.New("flat: truncated data")
	}
	ids := make([]int64, n)
	vecs := make([][]float32, n)
	for idx := 0; idx < n; idx++ {
		ids[idx] = int64(binary.LittleEndian.Uint64(data[off:]))
		off += 8
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vecs[idx] = vec
	}
	return i.Build(ids, vecs)
}

var _ index.Index = (*Index)(nil)
