// Package cache stores fetched info-panel markup and icon bytes.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON entry per key under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the server
//   - [NullCache]: stores nothing, for tests and --no-cache
//
// Keys are plain strings. [Prefixed] scopes a cache to one kind of data so
// that info responses and icons never collide:
//
//	info := cache.Prefixed(c, "info:")
//	info.Set(ctx, "8.3/2", markup, time.Hour)
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/lmfdb/latticeview/pkg/observability"
)

// Cache is a byte store with per-entry expiry. A zero ttl means the entry
// never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type prefixed struct {
	inner  Cache
	prefix string
}

// Prefixed returns a view of c that prepends prefix to every key and reports
// hits and misses to the cache hooks under the prefix name.
func Prefixed(c Cache, prefix string) Cache {
	return &prefixed{inner: c, prefix: prefix}
}

func (p *prefixed) keyType() string { return strings.TrimSuffix(p.prefix, ":") }

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := p.inner.Get(ctx, p.prefix+key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, p.keyType())
		} else {
			observability.Cache().OnCacheMiss(ctx, p.keyType())
		}
	}
	return data, ok, err
}

func (p *prefixed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := p.inner.Set(ctx, p.prefix+key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, p.keyType(), len(data))
	return nil
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}

// Close closes the underlying cache.
func (p *prefixed) Close() error { return p.inner.Close() }
