package engine

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver

	"github.com/simvec/simvec/vector"
)

// Open opens a SQLite database using the modernc.org/sqlite driver.
//
// For file-based databases, pass a path like "./db.sqlite". For in-memory
// databases, pass ":memory:".
func Open(dsn string) (*sql.DB, error) { return sql.Open("sqlite", dsn) }

// Bootstrap registers the vector SQL functions and verifies they are
// callable through the given database. The verification catches the case
// where functions were registered after connections had already been pooled,
// which would otherwise surface as an opaque "no such function" error at
// query time.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	if err := RegisterVectorFunctions(db); err != nil {
		return err
	}

	probe, err := vector.EncodeEmbedding([]float32{1})
	if err != nil {
		return err
	}
	var sim float64
	if err := db.QueryRowContext(ctx, `SELECT vec_cosine(?, ?)`, probe, probe).Scan(&sim); err != nil {
		return fmt.Errorf("engine: vector SQL functions unavailable: %w", err)
	}
	return nil
}
