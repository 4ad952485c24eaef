package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"

	"github.com/Takheer/mstroy-test/internal/server"
	"github.com/Takheer/mstroy-test/pkg/render"
	"github.com/Takheer/mstroy-test/pkg/tree"
)

// Cache backends accepted in [CacheConfig.Backend].
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the optional treestore.toml file. Every field has a default,
// and command-line flags override the file.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// StoreConfig configures how record files are indexed.
type StoreConfig struct {
	// Order is "preorder" or "level".
	Order string `toml:"order"`
}

// ServerConfig configures "treestore serve".
type ServerConfig struct {
	Addr        string `toml:"addr"`
	ReadTimeout string `toml:"read_timeout"` // e.g. "5s"
	MaxBody     string `toml:"max_body"`     // e.g. "1MiB"

	readTimeout time.Duration
	maxBody     int64
}

// CacheConfig configures the rendered-artifact cache.
type CacheConfig struct {
	Backend   string `toml:"backend"` // "file", "redis" or "none"
	RedisAddr string `toml:"redis_addr"`
	TTL       string `toml:"ttl"` // e.g. "24h"

	ttl time.Duration
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	cfg := Config{
		Store: StoreConfig{Order: tree.PreOrder.String()},
		Server: ServerConfig{
			Addr:        server.DefaultAddr,
			ReadTimeout: server.DefaultReadTimeout.String(),
			MaxBody:     humanize.IBytes(server.DefaultMaxBodyBytes),
		},
		Cache: CacheConfig{
			Backend:   backendFile,
			RedisAddr: "localhost:6379",
			TTL:       render.DefaultTTL.String(),
		},
	}
	_ = cfg.validate()
	return cfg
}

// LoadConfig reads the config file at path. With an empty path it looks
// for $XDG_CONFIG_HOME/treestore/config.toml and falls back to the defaults
// when that file does not exist. It returns the path actually read.
func LoadConfig(path string) (Config, string, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, "", nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, "", nil
	}
	if err != nil {
		return cfg, "", fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, "", fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, "", fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return cfg, "", fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, path, nil
}

// validate fills empty fields with defaults and parses durations and sizes.
func (c *Config) validate() error {
	if _, err := tree.ParseOrder(c.Store.Order); err != nil {
		return err
	}

	if c.Server.Addr == "" {
		c.Server.Addr = server.DefaultAddr
	}
	c.Server.readTimeout = server.DefaultReadTimeout
	if c.Server.ReadTimeout != "" {
		d, err := time.ParseDuration(c.Server.ReadTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("server.read_timeout: invalid duration %q", c.Server.ReadTimeout)
		}
		c.Server.readTimeout = d
	}
	c.Server.maxBody = server.DefaultMaxBodyBytes
	if c.Server.MaxBody != "" {
		n, err := humanize.ParseBytes(c.Server.MaxBody)
		if err != nil || n == 0 {
			return fmt.Errorf("server.max_body: invalid size %q", c.Server.MaxBody)
		}
		c.Server.maxBody = int64(n)
	}

	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	if c.Cache.Backend == "" {
		c.Cache.Backend = backendFile
	}
	if !slices.Contains([]string{backendFile, backendRedis, backendNone}, c.Cache.Backend) {
		return fmt.Errorf("cache.backend: unknown backend %q (want file, redis or none)", c.Cache.Backend)
	}
	c.Cache.ttl = render.DefaultTTL
	if c.Cache.TTL != "" {
		d, err := time.ParseDuration(c.Cache.TTL)
		if err != nil || d <= 0 {
			return fmt.Errorf("cache.ttl: invalid duration %q", c.Cache.TTL)
		}
		c.Cache.ttl = d
	}
	return nil
}

// configDir returns the config directory using XDG standard (~/.config/treestore/).
func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}
