package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/simvec/simvec/cache"
	"github.com/simvec/simvec/cache/lru"
	redisbackend "github.com/simvec/simvec/cache/redis"
	"github.com/simvec/simvec/config"
	"github.com/simvec/simvec/engine"
	"github.com/simvec/simvec/store"
	"github.com/simvec/simvec/store/memory"
	"github.com/simvec/simvec/store/postgres"
	"github.com/simvec/simvec/store/sqlite"
)

// resetter is implemented by every backend; it is deliberately outside the
// store.Store interface because resetting is an administrative operation,
// not part of the query path.
type resetter interface {
	Reset(ctx context.Context) error
}

// app holds the wired store for a single command invocation.
type app struct {
	cfg   config.Config
	store store.Store
	reset resetter
	close func() error
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// newApp builds the configured backend, runs its bootstrap, and wraps it
// with the configured cache.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{cfg: cfg, close: func() error { return nil }}

	switch cfg.Backend {
	case config.BackendMemory:
		s := memory.New()
		a.store, a.reset = s, s

	case config.BackendSQLite:
		db, err := engine.Open(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := engine.Bootstrap(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		s, err := sqlite.New(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		a.store, a.reset, a.close = s, s, db.Close

	case config.BackendPostgres:
		db, err := postgres.Open(cfg.DSN)
		if err != nil {
			return nil, err
		}
		s, err := postgres.New(ctx, db, cfg.Dimension)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		a.store, a.reset, a.close = s, s, db.Close

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	switch cfg.Cache.Kind {
	case config.CacheOff:
	case config.CacheLRU:
		backend, err := lru.New(cfg.Cache.Capacity, time.Duration(cfg.Cache.TTL))
		if err != nil {
			_ = a.close()
			return nil, err
		}
		a.store = cache.NewSearcher(a.store, backend, slog.Default())
	case config.CacheRedis:
		backend, err := redisbackend.New(ctx, cfg.Cache.Addr, time.Duration(cfg.Cache.TTL))
		if err != nil {
			_ = a.close()
			return nil, err
		}
		a.store = cache.NewSearcher(a.store, backend, slog.Default())
		inner := a.close
		a.close = func() error {
			err := backend.Close()
			if cerr := inner(); cerr != nil {
				return cerr
			}
			return err
		}
	}

	return a, nil
}

// parseEmbedding parses a comma-separated list of floats, e.g. "1,0,0.5".
func parseEmbedding(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	vec := make([]float32, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid embedding component %q: %w", p, err)
		}
		vec = append(vec, float32(f))
	}
	return vec, nil
}
