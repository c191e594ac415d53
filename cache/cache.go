// Package cache provides best-effort caching of similarity search results.
// A Searcher decorates a store.Store; backend failures degrade to a direct
// search rather than failing the query.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"math"

	"github.com/simvec/simvec/store"
)

// Backend stores match lists keyed by query fingerprint. Implementations own
// TTL and eviction; Get reports a miss for expired or evicted entries.
type Backend interface {
	Get(ctx context.Context, key string) ([]store.Match, bool, error)
	Set(ctx context.Context, key string, matches []store.Match) error
	Delete(ctx context.Context, key string) error
	// Flush drops all entries. Called after mutations, since any cached
	// result may be stale once the record set changes.
	Flush(ctx context.Context) error
}

// Key fingerprints a search request. Equal query vectors and thresholds map
// to the same key.
func Key(query []float32, threshold float64) string {
	h := sha256.New()
	var buf [8]byte
	for _, v := range query {
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(v))
		h.Write(buf[:4])
	}
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(threshold))
	h.Write(buf[:])
	return hex.EncodeToString(h.Sum(nil))
}

// Searcher is a store.Store that reads search results through a cache
// backend. Mutations pass through to the underlying store and flush the
// cache.
type Searcher struct {
	store   store.Store
	backend Backend
	logger  *slog.Logger
}

// NewSearcher wraps a store with a cache backend. A nil logger defaults to
// slog.Default.
func NewSearcher(s store.Store, backend Backend, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{store: s, backend: backend, logger: logger}
}

// Search returns the cached result for this query and threshold when
// present, otherwise queries the underlying store and caches the result.
func (c *Searcher) Search(ctx context.Context, query []float32, threshold float64) ([]store.Match, error) {
	key := Key(query, threshold)

	matches, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "cache get failed, falling back to store", "error", err)
	} else if ok {
		return matches, nil
	}

	matches, err = c.store.Search(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	if err := c.backend.Set(ctx, key, matches); err != nil {
		c.logger.WarnContext(ctx, "cache set failed", "error", err)
	}
	return matches, nil
}

// Upsert writes through to the store and flushes the cache.
func (c *Searcher) Upsert(ctx context.Context, rec store.Record) error {
	if err := c.store.Upsert(ctx, rec); err != nil {
		return err
	}
	c.flush(ctx)
	return nil
}

// Get delegates to the store.
func (c *Searcher) Get(ctx context.Context, id int64) (store.Record, error) {
	return c.store.Get(ctx, id)
}

// Delete writes through to the store and flushes the cache.
func (c *Searcher) Delete(ctx context.Context, id int64) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.flush(ctx)
	return nil
}

func (c *Searcher) flush(ctx context.Context) {
	if err := c.backend.Flush(ctx); err != nil {
		c.logger.WarnContext(ctx, "cache flush failed", "error", err)
	}
}

var _ store.Store = (*Searcher)(nil)
