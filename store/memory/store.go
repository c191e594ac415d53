// Package memory implements store.Store in process memory. It is used in
// tests and as the fallback backend when no database is configured. Ranking
// is delegated to the flat index, rebuilt lazily after mutations.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/simvec/simvec/index/flat"
	"github.com/simvec/simvec/store"
)

// Store keeps records in a map guarded by a mutex.
type Store struct {
	mu      sync.Mutex
	records map[int64]store.Record
	idx     *flat.Index
	dirty   bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{records: make(map[int64]store.Record), idx: flat.New()}
}

// Upsert stores a copy of the record keyed by its ID.
func (s *Store) Upsert(_ context.Context, rec store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Embedding != nil {
		cpy := make([]float32, len(rec.Embedding))
		copy(cpy, rec.Embedding)
		rec.Embedding = cpy
	}
	s.records[rec.ID] = rec
	s.dirty = true
	return nil
}

// Get loads a record by ID. Returns store.ErrNotFound when missing.
func (s *Store) Get(_ context.Context, id int64) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return store.Record{}, fmt.Errorf("%w: id %d", store.ErrNotFound, id)
	}
	return rec, nil
}

// Delete removes a record by ID. Deleting a missing record is not an error.
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; ok {
		delete(s.records, id)
		s.dirty = true
	}
	return nil
}

// Search ranks records with a non-nil embedding by cosine similarity,
// keeping those strictly above threshold in descending order. Inconsistent
// embedding dimensions surface as an error from the index build.
func (s *Store) Search(_ context.Context, query []float32, threshold float64) ([]store.Match, error) {
	idx, err := s.snapshotIndex()
	if err != nil {
		return nil, err
	}

	ids, scores, err := idx.Query(query, 0, threshold)
	if err != nil {
		return nil, err
	}
	out := make([]store.Match, len(ids))
	for i := range ids {
		out[i] = store.Match{ID: ids[i], Similarity: scores[i]}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// Reset drops all records.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[int64]store.Record)
	s.idx = flat.New()
	s.dirty = false
	return nil
}

// snapshotIndex rebuilds the flat index after mutations and returns the
// current immutable build. Mutations replace the index rather than modify
// it, so queries can proceed without the lock.
func (s *Store) snapshotIndex() (*flat.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dirty {
		ids := make([]int64, 0, len(s.records))
		vecs := make([][]float32, 0, len(s.records))
		for id, rec := range s.records {
			if rec.Embedding == nil {
				continue
			}
			ids = append(ids, id)
			vecs = append(vecs, rec.Embedding)
		}
		idx := flat.New()
		if err := idx.Build(ids, vecs); err != nil {
			return nil, err
		}
		s.idx = idx
		s.dirty = false
	}
	return s.idx, nil
}

var _ store.Store = (*Store)(nil)
