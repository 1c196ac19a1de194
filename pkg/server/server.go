package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/coursepaper/pkg/blob"
	"github.com/matzehuels/coursepaper/pkg/cache"
	"github.com/matzehuels/coursepaper/pkg/config"
	"github.com/matzehuels/coursepaper/pkg/document"
	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/export"
	"github.com/matzehuels/coursepaper/pkg/metrics"
	"github.com/matzehuels/coursepaper/pkg/render/sink"
)

// maxExportBody bounds POST /export bodies.
const maxExportBody = 16 << 20

// Server holds the handlers' dependencies.
type Server struct {
	cfg      config.Config
	paper    *document.Paper
	exporter *export.Exporter
	render   sink.Options

	cache     cache.Cache
	blobCache cache.Cache
	figures   *sink.Cached
	blobs     *blob.Registry

	metrics *metrics.Registry
	logger  *log.Logger
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithPaper serves p instead of the built-in paper.
func WithPaper(p *document.Paper) Option {
	return func(s *Server) {
		if p != nil {
			s.paper = p
		}
	}
}

// WithCache stores figures and exports in c. The server does not close it.
func WithCache(c cache.Cache) Option {
	return func(s *Server) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records into m instead of a private registry.
func WithMetrics(m *metrics.Registry) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New creates a server for cfg. Without options it serves the built-in paper
// from an in-memory cache.
func New(cfg config.Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		exporter: cfg.Exporter(),
		render:   cfg.SinkOptions(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.paper == nil {
		p, err := document.Default()
		if err != nil {
			return nil, err
		}
		s.paper = p
	}
	if s.cache == nil {
		s.cache = cache.NewMemoryCache()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewRegistry()
	}

	keyer := cfg.Cache.Keyer()
	s.figures = &sink.Cached{
		Cache:   s.cache,
		Keyer:   keyer,
		TTL:     cfg.Cache.TTL.D(),
		Logger:  s.logger,
		Observe: s.metrics.RecordRender,
	}

	// A null cache would lose every export before it is downloaded.
	blobCache := s.cache
	if _, ok := blobCache.(cache.NullCache); ok {
		blobCache = cache.NewMemoryCache()
	}
	s.blobCache = blobCache
	s.blobs = blob.NewRegistry(blobCache,
		blob.WithTTL(cfg.Server.BlobTTL.D()),
		blob.WithKeyer(keyer),
	)

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/diagrams/{file}", s.handleDiagram)
	r.Get("/export", s.handleExportPage)
	r.Post("/export", s.handleExportPosted)
	r.Get("/downloads/{id}", s.handleDownload)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Server.Addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "listen on %s", s.cfg.Server.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:        s,
		ReadTimeout:    s.cfg.Server.ReadTimeout.D(),
		WriteTimeout:   s.cfg.Server.WriteTimeout.D(),
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
		BaseContext:    func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	s.sweep(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.Server.ShutdownTimeout.D()
	s.logger.Info("Shutting down", "timeout", timeout)

	shutdownCtx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, timeout)
		defer cancel()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	return nil
}

// sweep starts one goroutine per cache that must drop expired entries itself.
// Exports that are never downloaded would otherwise stay resident. The tick
// follows the blob TTL, falling back to the figure TTL.
func (s *Server) sweep(ctx context.Context) {
	interval := s.cfg.Server.BlobTTL.D()
	if interval <= 0 {
		interval = s.cfg.Cache.TTL.D()
	}
	if interval <= 0 {
		return
	}

	seen := make(map[cache.Sweeper]bool)
	for _, c := range []cache.Cache{s.cache, s.blobCache} {
		sw, ok := c.(cache.Sweeper)
		if !ok || seen[sw] {
			continue
		}
		seen[sw] = true
		go cache.SweepEvery(ctx, sw, interval, func(n int) {
			s.logger.Debug("Swept expired entries", "count", n)
		})
	}
}
