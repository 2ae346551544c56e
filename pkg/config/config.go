// Package config loads latticeview settings from a TOML file and the
// environment.
//
// Values are layered: built-in defaults, then the config file, then
// LATTICEVIEW_* environment variables for the deployment settings (source,
// cache, server, info endpoint). Command-line flags are applied last by the
// CLI.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/lmfdb/latticeview/pkg/cache"
	"github.com/lmfdb/latticeview/pkg/errors"
	"github.com/lmfdb/latticeview/pkg/infopanel"
	"github.com/lmfdb/latticeview/pkg/session"
	"github.com/lmfdb/latticeview/pkg/source"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LATTICEVIEW"

// Config is the complete configuration.
type Config struct {
	Session session.Config   `toml:"session"`
	Info    infopanel.Config `toml:"info"`
	Source  source.Config    `toml:"source"`
	Cache   CacheConfig      `toml:"cache"`
	Server  ServerConfig     `toml:"server"`
}

// CacheConfig selects the cache backend for info and icon responses.
type CacheConfig struct {
	// Backend is "file", "redis" or "none".
	Backend       string `toml:"backend" envconfig:"CACHE_BACKEND"`
	Dir           string `toml:"dir" envconfig:"CACHE_DIR"`
	RedisAddr     string `toml:"redis_addr" envconfig:"REDIS_ADDR"`
	RedisPassword string `toml:"redis_password" envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `toml:"redis_db" envconfig:"REDIS_DB"`
}

// ServerConfig configures `latticeview serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr" envconfig:"ADDR"`
	AllowedOrigins []string `toml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Session: session.DefaultConfig(),
		Info:    infopanel.DefaultConfig(),
		Cache:   CacheConfig{Backend: "file"},
		Server:  ServerConfig{Addr: ":8080"},
	}
}

// Dir returns the latticeview config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "latticeview")
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultCacheDir is the file cache location when none is configured.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "latticeview")
}

// Load reads path over the defaults and applies environment overrides. An
// empty path reads DefaultPath if it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	} else if explicit {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays LATTICEVIEW_* variables. Unset variables leave the
// current values alone.
func ApplyEnv(cfg *Config) error {
	for _, target := range []any{&cfg.Source, &cfg.Cache, &cfg.Server, &cfg.Info} {
		if err := envconfig.Process(EnvPrefix, target); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "environment")
		}
	}
	return nil
}

// SetDefaults fills zero fields of every section.
func (c *Config) SetDefaults() {
	c.Session.SetDefaults()
	c.Info.SetDefaults()
	if c.Cache.Backend == "" {
		c.Cache.Backend = "file"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Session.Validate(); err != nil {
		return err
	}
	if err := c.Info.Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "file", "none":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis cache needs redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// OpenCache creates the configured cache backend.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisOptions{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB})
	default:
		dir := c.Dir
		if dir == "" {
			dir = DefaultCacheDir()
		}
		return cache.NewFileCache(dir)
	}
}
