// Package lru implements the cache backend in process memory with LRU
// eviction and per-entry TTL.
package lru

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/simvec/simvec/store"
)

type entry struct {
	matches []store.Match
	expires time.Time
}

// Backend is an in-memory LRU cache of search results.
type Backend struct {
	cache *lru.Cache[string, entry]
	ttl   time.Duration
	now   func() time.Time
}

// New creates an LRU backend with the given capacity. ttl <= 0 disables
// expiry.
func New(capacity int, ttl time.Duration) (*Backend, error) {
	c, err := lru.New[string, entry](capacity)
	if err != nil {
		return nil, err
	}
	return &Backend{cache: c, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached matches for key, treating expired entries as
// misses.
func (b *Backend) Get(_ context.Context, key string) ([]store.Match, bool, error) {
	e, ok := b.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && b.now().After(e.expires) {
		b.cache.Remove(key)
		return nil, false, nil
	}
	return e.matches, true, nil
}

// Set stores matches under key with the backend TTL.
func (b *Backend) Set(_ context.Context, key string, matches []store.Match) error {
	e := entry{matches: matches}
	if b.ttl > 0 {
		e.expires = b.now().Add(b.ttl)
	}
	b.cache.Add(key, e)
	return nil
}

// Delete removes a single entry.
func (b *Backend) Delete(_ context.Context, key string) error {
	b.cache.Remove(key)
	return nil
}

// Flush drops all entries.
func (b *Backend) Flush(_ context.Context) error {
	b.cache.Purge()
	return nil
}
