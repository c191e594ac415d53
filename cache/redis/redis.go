// Package redis implements the cache backend on Redis. Match lists are
// stored JSON-encoded under a common key prefix with a TTL, so entries age
// out server-side without bookkeeping on this end.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/simvec/simvec/store"
)

const keyPrefix = "simvec:search:"

// Backend is a Redis-backed cache of search results.
type Backend struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection. addr accepts either a
// redis:// / rediss:// URL or a bare host:port.
func New(ctx context.Context, addr string, ttl time.Duration) (*Backend, error) {
	var opts *redis.Options
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("redis: invalid URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &Backend{client: client, ttl: ttl}, nil
}

// Get returns the cached matches for key, if present.
func (b *Backend) Get(ctx context.Context, key string) ([]store.Match, bool, error) {
	data, err := b.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var matches []store.Match
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, false, err
	}
	return matches, true, nil
}

// Set stores matches under key with the backend TTL.
func (b *Backend) Set(ctx context.Context, key string, matches []store.Match) error {
	data, err := json.Marshal(matches)
	if err != nil {
		return err
	}
	return b.client.Set(ctx, keyPrefix+key, data, b.ttl).Err()
}

// Delete removes a single entry.
func (b *Backend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, keyPrefix+key).Err()
}

// Flush drops every entry under the key prefix.
func (b *Backend) Flush(ctx context.Context) error {
	iter := b.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := b.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close releases the underlying client.
func (b *Backend) Close() error { return b.client.Close() }
