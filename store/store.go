// Package store defines the record model and the storage interface shared by
// the SQLite, Postgres, and in-memory backends.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no record has the requested ID.
var ErrNotFound = errors.New("store: record not found")

// Record is an entity with an integer identifier and an optional embedding.
// A nil Embedding marks a record that has not been embedded yet; such
// records are never returned by Search.
type Record struct {
	ID        int64
	Content   string
	Meta      string
	Embedding []float32
}

// Match pairs a record identifier with its cosine similarity to a query
// embedding. Matches are produced transiently per query and not persisted.
type Match struct {
	ID         int64   `json:"id"`
	Similarity float64 `json:"similarity"`
}

// Store is the record storage collaborator. Search scans records with a
// non-nil embedding, keeps those whose cosine similarity to the query is
// strictly greater than threshold, and returns them ordered by descending
// similarity (tie order unspecified). A stored embedding whose dimension
// does not match the query surfaces as an error.
type Store interface {
	Upsert(ctx context.Context, rec Record) error
	Get(ctx context.Context, id int64) (Record, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query []float32, threshold float64) ([]Match, error)
}
