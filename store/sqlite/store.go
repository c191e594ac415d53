// Package sqlite implements store.Store on a SQLite database, pushing the
// similarity computation in-line with the scan via the vec_cosine SQL
// function registered by the engine package.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simvec/simvec/store"
	"github.com/simvec/simvec/vector"
)

const recordsSchema = `
CREATE TABLE IF NOT EXISTS records (
    id INTEGER PRIMARY KEY,
    content TEXT,
    meta TEXT,
    embedding BLOB
);
`

// Store is a SQLite-backed record store. The database must have the vector
// SQL functions installed (see engine.Bootstrap) before Search is used.
type Store struct {
	db *sql.DB
}

// New creates a SQLite-backed store and ensures the records table exists.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlite: db is nil")
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// EnsureSchema creates the records table if it does not already exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, recordsSchema)
	return err
}

// Upsert inserts a record or replaces the existing row with the same ID.
func (s *Store) Upsert(ctx context.Context, rec store.Record) error {
	blob, err := vector.EncodeEmbedding(rec.Embedding)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO records(id, content, meta, embedding) VALUES(?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET content = excluded.content, meta = excluded.meta, embedding = excluded.embedding`,
		rec.ID, rec.Content, rec.Meta, blob)
	return err
}

// UpsertBatch inserts or replaces records in a single transaction.
func (s *Store) UpsertBatch(ctx context.Context, recs []store.Record) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records(id, content, meta, embedding) VALUES(?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET content = excluded.content, meta = excluded.meta, embedding = excluded.embedding`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range recs {
		blob, err := vector.EncodeEmbedding(rec.Embedding)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Content, rec.Meta, blob); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get loads a record by ID. Returns store.ErrNotFound when missing.
func (s *Store) Get(ctx context.Context, id int64) (store.Record, error) {
	var rec store.Record
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, meta, embedding FROM records WHERE id = ?`, id).
		Scan(&rec.ID, &rec.Content, &rec.Meta, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, fmt.Errorf("%w: id %d", store.ErrNotFound, id)
	}
	if err != nil {
		return store.Record{}, err
	}
	rec.Embedding, err = vector.DecodeEmbedding(blob)
	if err != nil {
		return store.Record{}, err
	}
	return rec, nil
}

// Delete removes a record by ID. Deleting a missing record is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	return err
}

// Search computes vec_cosine in-line with the table scan, filters rows whose
// similarity is strictly greater than threshold, and returns them ordered by
// descending similarity. Rows with a NULL embedding are skipped. A stored
// embedding of a different dimension fails the whole query.
//
// SQLite cannot reference a select alias from WHERE, so the function call is
// repeated; vec_cosine is registered deterministic, which lets the engine
// fold the duplicate.
func (s *Store) Search(ctx context.Context, query []float32, threshold float64) ([]store.Match, error) {
	blob, err := vector.EncodeEmbedding(query)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, vec_cosine(embedding, ?) AS sim
FROM records
WHERE embedding IS NOT NULL AND vec_cosine(embedding, ?) > ?
ORDER BY sim DESC`,
		blob, blob, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Match
	for rows.Next() {
		var m store.Match
		if err := rows.Scan(&m.ID, &m.Similarity); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Reset drops and recreates the records table.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS records`); err != nil {
		return err
	}
	return EnsureSchema(ctx, s.db)
}

var _ store.Store = (*Store)(nil)
