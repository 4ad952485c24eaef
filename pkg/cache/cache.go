// Package cache stores derived artifacts, such as rendered SVG diagrams of a
// record tree, keyed by a hash of their inputs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a local directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers running side by side
//   - [NullCache]: stores nothing, for disabling caching
//
// All backends implement [Cache]. Wrap a backend with [Instrument] to report
// hits, misses and writes to the registered observability hooks, and with
// [Scoped] to give a group of callers their own key namespace.
//
// # Keys
//
// [Key] builds keys of the form "kind:sha256(parts)". The kind prefix is
// what the observability hooks receive as the key type:
//
//	key := cache.Key("svg", dot)
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/Takheer/mstroy-test/pkg/observability"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok=false and a nil error. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) (removed int, err error)
}

// Scoped prefixes every key passed to inner with prefix, so callers sharing
// a backend cannot read each other's entries.
func Scoped(inner Cache, prefix string) Cache {
	if prefix == "" {
		return inner
	}
	return &scoped{inner: inner, prefix: prefix}
}

type scoped struct {
	inner  Cache
	prefix string
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

func (s *scoped) Close() error { return s.inner.Close() }

// Instrument reports every Get and successful Set on c to
// observability.Cache(). The key type passed to the hooks is the part of the
// key before the first colon.
func Instrument(c Cache) Cache {
	return &instrumented{inner: c}
}

type instrumented struct {
	inner Cache
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := i.inner.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, ok, err
}

func (i *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := i.inner.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	return i.inner.Delete(ctx, key)
}

func (i *instrumented) Close() error { return i.inner.Close() }

func keyType(key string) string {
	if kind, _, ok := strings.Cut(key, ":"); ok {
		return kind
	}
	return "other"
}
