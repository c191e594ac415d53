package sqlite_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/simvec/simvec/engine"
	"github.com/simvec/simvec/store"
	"github.com/simvec/simvec/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	db, err := engine.Open(":memory:")
	if err != nil {
		t.Fatalf("engine.Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := engine.Bootstrap(context.Background(), db); err != nil {
		t.Fatalf("engine.Bootstrap failed: %v", err)
	}
	s, err := sqlite.New(context.Background(), db)
	if err != nil {
		t.Fatalf("sqlite.New failed: %v", err)
	}
	return s
}

func seedRecords(t *testing.T, s *sqlite.Store) {
	t.Helper()
	recs := []store.Record{
		{ID: 1, Content: "east", Embedding: []float32{1, 0}},
		{ID: 2, Content: "north", Embedding: []float32{0, 1}},
		{ID: 3, Content: "northeast", Embedding: []float32{1, 1}},
	}
	if err := s.UpsertBatch(context.Background(), recs); err != nil {
		t.Fatalf("UpsertBatch failed: %v", err)
	}
}

func TestSearch_ThresholdAndOrder(t *testing.T) {
	s := newTestStore(t)
	seedRecords(t, s)

	matches, err := s.Search(context.Background(), []float32{1, 0}, 0.5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Search returned %d matches, want 2: %v", len(matches), matches)
	}
	if matches[0].ID != 1 || matches[1].ID != 3 {
		t.Fatalf("Search order = [%d, %d], want [1, 3]", matches[0].ID, matches[1].ID)
	}
	if math.Abs(matches[0].Similarity-1) > 1e-6 {
		t.Fatalf("match 1 similarity = %v, want 1", matches[0].Similarity)
	}
	if math.Abs(matches[1].Similarity-math.Sqrt2/2) > 1e-6 {
		t.Fatalf("match 3 similarity = %v, want ~0.7071", matches[1].Similarity)
	}
}

func TestSearch_HighThreshold(t *testing.T) {
	s := newTestStore(t)
	seedRecords(t, s)

	matches, err := s.Search(context.Background(), []float32{1, 0}, 0.99)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != 1 {
		t.Fatalf("Search(threshold=0.99) = %v, want only record 1", matches)
	}
}

func TestSearch_NullEmbeddingExcluded(t *testing.T) {
	s := newTestStore(t)
	seedRecords(t, s)

	if err := s.Upsert(context.Background(), store.Record{ID: 4, Content: "pending"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	matches, err := s.Search(context.Background(), []float32{1, 0}, -1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for _, m := range matches {
		if m.ID == 4 {
			t.Fatalf("record without embedding returned by Search: %v", matches)
		}
	}
}

func TestSearch_DimensionMismatchErrors(t *testing.T) {
	s := newTestStore(t)
	seedRecords(t, s)

	if err := s.Upsert(context.Background(), store.Record{ID: 5, Embedding: []float32{1, 0, 0}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if _, err := s.Search(context.Background(), []float32{1, 0}, 0.5); err == nil {
		t.Fatal("expected error for stored embedding of mismatched dimension")
	}
}

func TestUpsertGetDelete(t *testing.T) {
	s := newTestStore(t)

	rec := store.Record{ID: 7, Content: "doc", Meta: `{"k":"v"}`, Embedding: []float32{0.5, -0.5}}
	if err := s.Upsert(context.Background(), rec); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := s.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Content != rec.Content || got.Meta != rec.Meta || len(got.Embedding) != 2 {
		t.Fatalf("Get = %+v, want %+v", got, rec)
	}

	// Upsert with the same ID replaces the row.
	rec.Content = "doc v2"
	if err := s.Upsert(context.Background(), rec); err != nil {
		t.Fatalf("Upsert (replace) failed: %v", err)
	}
	got, err = s.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get after replace failed: %v", err)
	}
	if got.Content != "doc v2" {
		t.Fatalf("Get content = %q, want %q", got.Content, "doc v2")
	}

	if err := s.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(context.Background(), 7); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get after delete error = %v, want ErrNotFound", err)
	}
}

func TestReset(t *testing.T) {
	s := newTestStore(t)
	seedRecords(t, s)

	if err := s.Reset(context.Background()); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	matches, err := s.Search(context.Background(), []float32{1, 0}, -1)
	if err != nil {
		t.Fatalf("Search after Reset failed: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("Search after Reset returned %d matches, want 0", len(matches))
	}
}
