// Package config loads coursepaper.toml.
//
// Defaults come first, a TOML file overlays them, and command-line flags
// override both. The merged result is checked with validator struct tags:
//
//	[server]
//	addr = ":8080"
//	shutdown_timeout = "10s"
//
//	[render]
//	scale = 2
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/coursepaper/pkg/cache"
	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/export"
	"github.com/matzehuels/coursepaper/pkg/render"
	"github.com/matzehuels/coursepaper/pkg/render/sink"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "coursepaper.toml"

// Cache backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendFile   = "file"
	BackendNull   = "null"
)

var validate = validator.New()

// Duration is a time.Duration written as a string ("30s", "5m") in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// D returns d as a time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

// Config is the complete configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
	Export ExportConfig `toml:"export"`
	Cache  CacheConfig  `toml:"cache"`
}

type ServerConfig struct {
	Addr            string   `toml:"addr" validate:"required,hostname_port"`
	ReadTimeout     Duration `toml:"read_timeout" validate:"gte=0"`
	WriteTimeout    Duration `toml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" validate:"gte=0"`
	// BlobTTL bounds how long an export download link stays valid.
	BlobTTL Duration `toml:"blob_ttl" validate:"gte=0"`
}

type RenderConfig struct {
	Width  int     `toml:"width" validate:"gt=0,lte=4096"`
	Height int     `toml:"height" validate:"gt=0,lte=4096"`
	Scale  float64 `toml:"scale" validate:"gte=1,lte=4"`
}

type ExportConfig struct {
	ContainerID string `toml:"container_id" validate:"required"`
	Filename    string `toml:"filename" validate:"required"`
	Title       string `toml:"title" validate:"required"`
}

type CacheConfig struct {
	Backend  string   `toml:"backend" validate:"oneof=memory redis file null"`
	RedisURL string   `toml:"redis_url" validate:"required_if=Backend redis"`
	Dir      string   `toml:"dir"`
	TTL      Duration `toml:"ttl" validate:"gte=0"`
	// Prefix scopes every key, so several deployments can share one Redis.
	Prefix string `toml:"prefix"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
			BlobTTL:         Duration(5 * time.Minute),
		},
		Render: RenderConfig{
			Width:  render.Width,
			Height: render.Height,
			Scale:  1,
		},
		Export: ExportConfig{
			ContainerID: export.DefaultContainerID,
			Filename:    export.DefaultFilename,
			Title:       export.DefaultTitle,
		},
		Cache: CacheConfig{
			Backend: BackendMemory,
			TTL:     Duration(24 * time.Hour),
		},
	}
}

// Load reads path over the defaults. An empty path loads DefaultFile if it
// exists and the defaults otherwise. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return cfg, cfg.Validate()
		}
		path = DefaultFile
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks the struct tags and the export filename.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if err := errors.ValidateFilename(c.Export.Filename); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "export.filename")
	}
	if err := errors.ValidateElementID(c.Export.ContainerID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "export.container_id")
	}
	return nil
}

// formatValidationError reports the first failed field in TOML terms.
func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate")
	}

	e := verrs[0]
	field := tomlPath(e.Namespace())
	switch e.Tag() {
	case "required", "required_if":
		return errors.New(errors.ErrCodeInvalidConfig, "%s is required", field)
	case "oneof":
		return errors.New(errors.ErrCodeInvalidConfig, "%s must be one of: %s", field, e.Param())
	case "gt", "gte", "lt", "lte":
		return errors.New(errors.ErrCodeInvalidConfig, "%s out of range (%s %s)", field, e.Tag(), e.Param())
	case "hostname_port":
		return errors.New(errors.ErrCodeInvalidConfig, "%s must be host:port, got %q", field, e.Value())
	}
	return errors.New(errors.ErrCodeInvalidConfig, "%s failed %s", field, e.Tag())
}

// tomlPath turns "Config.Cache.RedisURL" into "cache.redis_url".
func tomlPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prev := rune(s[i-1])
			if prev < 'A' || prev > 'Z' {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Exporter returns an exporter built from the [export] table.
func (c Config) Exporter() *export.Exporter {
	return &export.Exporter{
		ContainerID: c.Export.ContainerID,
		Filename:    c.Export.Filename,
		Title:       c.Export.Title,
	}
}

// SinkOptions returns the render options from the [render] table.
func (c Config) SinkOptions() sink.Options {
	return sink.Options{
		Width:  float64(c.Render.Width),
		Height: float64(c.Render.Height),
		Scale:  c.Render.Scale,
	}
}

// Keyer returns the cache keyer, scoped by the configured prefix.
func (c CacheConfig) Keyer() cache.Keyer {
	k := cache.NewDefaultKeyer()
	if c.Prefix != "" {
		k = cache.NewScopedKeyer(k, c.Prefix)
	}
	return k
}

// Open creates the configured cache backend.
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendMemory, "":
		return cache.NewMemoryCache(), nil
	case BackendNull:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.RedisURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open redis cache")
		}
		return rc, nil
	case BackendFile:
		dir := c.Dir
		if dir == "" {
			d, err := DefaultCacheDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open file cache")
		}
		return fc, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Backend)
}

// DefaultCacheDir returns the per-user cache directory for rendered figures.
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate user cache dir: %w", err)
	}
	return filepath.Join(base, "coursepaper"), nil
}
