package sink

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/coursepaper/pkg/buildinfo"
	"github.com/matzehuels/coursepaper/pkg/cache"
)

// Cached renders figures through a cache. The zero value renders without
// caching.
type Cached struct {
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration
	// Logger receives cache failures, which never fail a render.
	Logger *log.Logger
	// Observe, if set, is called after every successful Render.
	Observe func(name string, format string, cached bool)
}

// Key returns the cache key for the figure name rendered with f and opts.
// The build version is part of the key.
func (c *Cached) Key(name string, f Format, opts Options) string {
	opts = opts.withDefaults()
	format := string(f)
	if f == FormatDOT && opts.Layout {
		format += "+layout"
	}
	k := c.Keyer
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	return k.DiagramKey(name, cache.DiagramKeyOpts{
		Format:  format,
		Scale:   opts.Scale,
		Width:   opts.Width,
		Height:  opts.Height,
		Version: buildinfo.Version,
	})
}

// Render returns the cached bytes for the figure or renders and stores them.
// It has the signature of [Render] so it can stand in for it.
func (c *Cached) Render(ctx context.Context, name string, f Format, opts Options) ([]byte, error) {
	data, _, err := c.RenderHit(ctx, name, f, opts)
	return data, err
}

// RenderHit is Render that also reports whether the bytes came from the cache.
func (c *Cached) RenderHit(ctx context.Context, name string, f Format, opts Options) ([]byte, bool, error) {
	if c.Cache == nil {
		data, err := Render(ctx, name, f, opts)
		if err == nil {
			c.observe(name, f, false)
		}
		return data, false, err
	}

	key := c.Key(name, f, opts)
	if data, hit, err := c.Cache.Get(ctx, key); err != nil {
		c.warn("Cache read failed", key, err)
	} else if hit {
		c.observe(name, f, true)
		return data, true, nil
	}

	data, err := Render(ctx, name, f, opts)
	if err != nil {
		return nil, false, err
	}
	c.observe(name, f, false)

	if err := c.Cache.Set(ctx, key, data, c.TTL); err != nil {
		c.warn("Cache write failed", key, err)
	}
	return data, false, nil
}

func (c *Cached) observe(name string, f Format, hit bool) {
	if c.Observe != nil {
		c.Observe(name, string(f), hit)
	}
}

func (c *Cached) warn(msg, key string, err error) {
	if c.Logger != nil {
		c.Logger.Warn(msg, "key", key, "err", err)
	}
}
