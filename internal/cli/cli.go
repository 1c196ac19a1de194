// Package cli implements the coursepaper command-line interface.
//
// The CLI renders the paper's figures, builds a static copy of the page with
// its Word export, serves the page over HTTP and checks that the highlighted
// routes in the figures agree with the analyses they illustrate. It is built
// on cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - render: draw figures as SVG, PNG, DOT or JSON
//   - build: write index.html, the figures and the .doc into a directory
//   - export: turn an HTML page into the Word document
//   - serve: run the HTTP server
//   - outline: browse the paper's sections
//   - check: recompute the shortest and critical paths
//   - cache: manage the figure cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/coursepaper/pkg/cache"
	"github.com/matzehuels/coursepaper/pkg/config"
	"github.com/matzehuels/coursepaper/pkg/render/sink"
)

// appName is the application name used for directories and display.
const appName = "coursepaper"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is bound to the --config flag.
	configPath string
	// out receives command output; nil means stdout.
	out io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output, which is useful in tests.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

func (c *CLI) stdout() io.Writer {
	if c.out != nil {
		return c.out
	}
	return os.Stdout
}

// loadConfig reads the file named by --config, or coursepaper.toml in the
// working directory when present, over the built-in defaults.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("Loaded config", "path", c.configPath, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// figureCache opens the on-disk figure cache, or a null cache for --no-cache.
// Failing to locate the cache directory disables caching instead of failing.
func (c *CLI) figureCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := config.DefaultCacheDir()
	if err != nil {
		c.Logger.Debug("Figure cache disabled", "err", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("Figure cache disabled", "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// newRenderer returns a cached figure renderer for CLI use.
func (c *CLI) newRenderer(cfg config.Config, noCache bool) *sink.Cached {
	return &sink.Cached{
		Cache:  c.figureCache(noCache),
		Keyer:  cfg.Cache.Keyer(),
		TTL:    cfg.Cache.TTL.D(),
		Logger: c.Logger,
	}
}

// commandContext returns the command's context with the CLI logger attached.
func (c *CLI) commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return withLogger(ctx, c.Logger)
}
