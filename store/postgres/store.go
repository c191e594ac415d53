// Package postgres implements store.Store on PostgreSQL with the pgvector
// extension. Similarity filtering and ordering are pushed into SQL using the
// cosine distance operator.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/simvec/simvec/store"
)

// Driver is the otel-instrumented driver name registered for lib/pq.
var Driver string

func init() {
	driver, err := otelsql.Register(
		"postgres",
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		detail := "failed to register postgres driver with otel"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}
	Driver = driver
}

// Open opens a Postgres database through the instrumented driver.
func Open(dsn string) (*sql.DB, error) { return sql.Open(Driver, dsn) }

// Store is a Postgres-backed record store with a pgvector embedding column.
type Store struct {
	db  *sql.DB
	dim int
}

// New creates a Postgres-backed store with a vector column of the given
// dimension and runs the one-time bootstrap: enable the vector extension and
// ensure the records table.
func New(ctx context.Context, db *sql.DB, dim int) (*Store, error) {
	if db == nil {
		return nil, errors.New("postgres: db is nil")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("postgres: embedding dimension must be positive, got %d", dim)
	}
	s := &Store{db: db, dim: dim}
	if err := s.Bootstrap(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Bootstrap enables the pgvector extension and creates the records table if
// needed. It is the declared schema dependency checked at startup: when the
// server cannot provide the vector extension, this fails rather than leaving
// Search to break later.
func (s *Store) Bootstrap(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("postgres: enable vector extension: %w", err)
	}
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS records (
    id BIGINT PRIMARY KEY,
    content TEXT,
    meta TEXT,
    embedding vector(%d)
)`, s.dim)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: ensure records table: %w", err)
	}
	return nil
}

// EnsureANNIndex creates an ivfflat index over the embedding column for
// approximate scans. It is an explicit opt-in: exact scans stay the default
// and the indexing strategy remains a separate concern from similarity
// semantics.
func (s *Store) EnsureANNIndex(ctx context.Context, lists int) error {
	if lists <= 0 {
		lists = 100
	}
	stmt := fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS records_embedding_ivfflat ON records USING ivfflat (embedding vector_cosine_ops) WITH (lists = %d)`,
		lists)
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

// Upsert inserts a record or replaces the existing row with the same ID.
func (s *Store) Upsert(ctx context.Context, rec store.Record) error {
	var emb any
	if rec.Embedding != nil {
		emb = pgvector.NewVector(rec.Embedding)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO records (id, content, meta, embedding)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET content = excluded.content, meta = excluded.meta, embedding = excluded.embedding`,
		rec.ID, rec.Content, rec.Meta, emb)
	return err
}

// nullVector scans a possibly NULL pgvector column.
type nullVector struct {
	vec   pgvector.Vector
	valid bool
}

func (n *nullVector) Scan(src any) error {
	if src == nil {
		n.valid = false
		return nil
	}
	n.valid = true
	return n.vec.Scan(src)
}

// Get loads a record by ID. Returns store.ErrNotFound when missing.
func (s *Store) Get(ctx context.Context, id int64) (store.Record, error) {
	var rec store.Record
	var emb nullVector
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, meta, embedding FROM records WHERE id = $1`, id).
		Scan(&rec.ID, &rec.Content, &rec.Meta, &emb)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, fmt.Errorf("%w: id %d", store.ErrNotFound, id)
	}
	if err != nil {
		return store.Record{}, err
	}
	if emb.valid {
		rec.Embedding = emb.vec.Slice()
	}
	return rec, nil
}

// Delete removes a record by ID. Deleting a missing record is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = $1`, id)
	return err
}

// Search filters and orders in SQL: similarity is 1 minus pgvector's cosine
// distance, rows with a NULL embedding are skipped, and ordering by distance
// ascending yields similarity descending. A query whose dimension differs
// from the column definition fails server-side and propagates.
func (s *Store) Search(ctx context.Context, query []float32, threshold float64) ([]store.Match, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, 1 - (embedding <=> $1) AS similarity
FROM records
WHERE embedding IS NOT NULL AND 1 - (embedding <=> $1) > $2
ORDER BY embedding <=> $1`,
		pgvector.NewVector(query), threshold)
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
	return s.Bootstrap(ctx)
}

var _ store.Store = (*Store)(nil)
