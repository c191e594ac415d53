// Package config loads simvec settings from a YAML file with environment
// variable overrides, mirroring how the backends expect to be wired: pick a
// storage backend, optionally a cache, and a default search threshold.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend kinds.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Cache kinds.
const (
	CacheOff   = "off"
	CacheLRU   = "lru"
	CacheRedis = "redis"
)

// Duration wraps time.Duration with YAML support for values like "30s".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Cache configures the optional search-result cache.
type Cache struct {
	Kind     string   `yaml:"kind"`
	Capacity int      `yaml:"capacity"`
	TTL      Duration `yaml:"ttl"`
	Addr     string   `yaml:"addr"`
}

// Config is the top-level simvec configuration.
type Config struct {
	Backend   string  `yaml:"backend"`
	DSN       string  `yaml:"dsn"`
	Dimension int     `yaml:"dimension"`
	Threshold float64 `yaml:"threshold"`
	Cache     Cache   `yaml:"cache"`
}

// Default returns the configuration used when no file is provided: an
// in-memory store with caching off and a 0.85 threshold (the original
// system's default for treating records as duplicates).
func Default() Config {
	return Config{
		Backend:   BackendMemory,
		Dimension: 1536,
		Threshold: 0.85,
		Cache: Cache{
			Kind:     CacheOff,
			Capacity: 128,
			TTL:      Duration(24 * time.Hour),
		},
	}
}

// Load reads the YAML file at path (skipped when empty), applies environment
// overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SIMVEC_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("SIMVEC_DSN"); v != "" {
		c.DSN = v
	}
	if v := os.Getenv("SIMVEC_DIMENSION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid SIMVEC_DIMENSION %q: %w", v, err)
		}
		c.Dimension = n
	}
	if v := os.Getenv("SIMVEC_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: invalid SIMVEC_THRESHOLD %q: %w", v, err)
		}
		c.Threshold = f
	}
	if v := os.Getenv("SIMVEC_CACHE"); v != "" {
		c.Cache.Kind = v
	}
	if v := os.Getenv("SIMVEC_REDIS_ADDR"); v != "" {
		c.Cache.Addr = v
	}
	return nil
}

// Validate checks for configurations that no backend can satisfy.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.Backend != BackendMemory && c.DSN == "" {
		return fmt.Errorf("config: backend %q requires a dsn", c.Backend)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("config: dimension must be positive, got %d", c.Dimension)
	}
	switch c.Cache.Kind {
	case CacheOff, CacheLRU:
	case CacheRedis:
		if c.Cache.Addr == "" {
			return fmt.Errorf("config: redis cache requires addr")
		}
	default:
		return fmt.Errorf("config: unknown cache kind %q", c.Cache.Kind)
	}
	if c.Cache.Kind == CacheLRU && c.Cache.Capacity <= 0 {
		return fmt.Errorf("config: lru cache requires positive capacity, got %d", c.Cache.Capacity)
	}
	return nil
}
