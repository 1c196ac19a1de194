// Package cache provides the key-value storage used for rendered diagrams and
// download blobs.
//
// # Backends
//
//   - [MemoryCache]: in-process map with TTL, the server default
//   - [FileCache]: JSON files under a directory, used by the CLI
//   - [RedisCache]: shared store so download links work across replicas
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// Keys are produced by a [Keyer] so that every backend sees the same layout:
//
//	k := cache.NewDefaultKeyer()
//	key := k.DiagramKey("transport", cache.DiagramKeyOpts{Format: "png", Scale: 2})
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiration.
// A ttl of zero means the entry never expires.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Taker is implemented by caches that can read and delete a key in one
// atomic step. Single-use entries rely on it so that a value is handed out
// at most once.
type Taker interface {
	Take(ctx context.Context, key string) ([]byte, bool, error)
}

// Take reads key and deletes it. It uses c's atomic Take when available and
// falls back to Get followed by Delete otherwise.
func Take(ctx context.Context, c Cache, key string) ([]byte, bool, error) {
	if t, ok := c.(Taker); ok {
		return t.Take(ctx, key)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		return nil, false, err
	}
	if err := c.Delete(ctx, key); err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Sweeper is implemented by caches that keep expired entries until they are
// swept. Redis expires keys itself and does not need it.
type Sweeper interface {
	Sweep() int
}

// SweepEvery calls s.Sweep on every tick of interval until ctx is done.
// onSweep, if set, receives the number of entries dropped by each sweep that
// removed something.
func SweepEvery(ctx context.Context, s Sweeper, interval time.Duration, onSweep func(n int)) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
