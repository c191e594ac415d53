package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "simvec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, 0.85, cfg.Threshold)
	assert.Equal(t, CacheOff, cfg.Cache.Kind)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
backend: sqlite
dsn: ./records.sqlite
dimension: 3
threshold: 0.5
cache:
  kind: lru
  capacity: 64
  ttl: 30s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "./records.sqlite", cfg.DSN)
	assert.Equal(t, 3, cfg.Dimension)
	assert.Equal(t, 0.5, cfg.Threshold)
	assert.Equal(t, CacheLRU, cfg.Cache.Kind)
	assert.Equal(t, Duration(30*time.Second), cfg.Cache.TTL)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SIMVEC_BACKEND", "postgres")
	t.Setenv("SIMVEC_DSN", "postgres://localhost/simvec")
	t.Setenv("SIMVEC_THRESHOLD", "0.9")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.Equal(t, "postgres://localhost/simvec", cfg.DSN)
	assert.Equal(t, 0.9, cfg.Threshold)
}

func TestEnvOverrides_Malformed(t *testing.T) {
	t.Run("dimension", func(t *testing.T) {
		t.Setenv("SIMVEC_DIMENSION", "lots")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SIMVEC_DIMENSION")
	})
	t.Run("threshold", func(t *testing.T) {
		t.Setenv("SIMVEC_THRESHOLD", "high")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SIMVEC_THRESHOLD")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Backend = "etcd" }},
		{"sqlite without dsn", func(c *Config) { c.Backend = BackendSQLite }},
		{"non-positive dimension", func(c *Config) { c.Dimension = 0 }},
		{"unknown cache", func(c *Config) { c.Cache.Kind = "memcached" }},
		{"redis without addr", func(c *Config) { c.Cache.Kind = CacheRedis }},
		{"lru without capacity", func(c *Config) { c.Cache.Kind = CacheLRU; c.Cache.Capacity = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	path := writeConfig(t, "cache:\n  ttl: soon\n")
	_, err := Load(path)
	assert.Error(t, err)
}
