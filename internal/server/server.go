package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nao1215/wordcrawl/internal/crawler"
	"github.com/nao1215/wordcrawl/internal/pipeline"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = "localhost:8181"

	// DefaultMaxRequestBytes caps the POST body.
	DefaultMaxRequestBytes = 1 << 20

	// DefaultShutdownTimeout bounds how long in-flight requests may run
	// after shutdown starts.
	DefaultShutdownTimeout = 15 * time.Second

	readHeaderTimeout = 10 * time.Second
)

// Server serves word frequency requests.
type Server struct {
	mux *http.ServeMux

	// filtered is the full POST pipeline.
	filtered *pipeline.Pipeline

	// unfiltered is the GET pipeline: crawl, normalize and sort only.
	unfiltered *pipeline.Pipeline

	logger          *slog.Logger
	maxRequestBytes int64
	requestTimeout  time.Duration
	shutdownTimeout time.Duration
}

// Option configures a Server.
type Option func(*serverConfig)

type serverConfig struct {
	logger           *slog.Logger
	extraIgnoreWords []string
	maxRequestBytes  int64
	requestTimeout   time.Duration
	shutdownTimeout  time.Duration
}

// WithLogger sets the logger for request and pipeline logs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *serverConfig) {
		c.logger = logger
	}
}

// WithExtraIgnoreWords excludes words from every POST request in addition
// to the request's own ignore list.
func WithExtraIgnoreWords(words []string) Option {
	return func(c *serverConfig) {
		c.extraIgnoreWords = append(c.extraIgnoreWords, words...)
	}
}

// WithMaxRequestBytes caps the size of POST bodies.
func WithMaxRequestBytes(n int64) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxRequestBytes = n
		}
	}
}

// WithRequestTimeout bounds the crawl behind each request. A request that
// runs out of time is answered with 503. Zero means no limit.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *serverConfig) {
		if d >= 0 {
			c.requestTimeout = d
		}
	}
}

// WithShutdownTimeout sets how long Serve waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *serverConfig) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// New creates a Server whose pipelines crawl with c.
// c is shared between requests; each request gets its own visited set and table.
func New(c *crawler.Crawler, opts ...Option) *Server {
	cfg := &serverConfig{
		logger:          slog.Default(),
		maxRequestBytes: DefaultMaxRequestBytes,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	pipelineOpts := []pipeline.Option{pipeline.WithLogger(cfg.logger)}

	s := &Server{
		mux: http.NewServeMux(),
		filtered: pipeline.DefaultPipeline(c, pipelineOpts,
			pipeline.WithExtraIgnoreWords(cfg.extraIgnoreWords)),
		unfiltered:      pipeline.DefaultPipeline(c, pipelineOpts, pipeline.WithoutFilters()),
		logger:          cfg.logger,
		maxRequestBytes: cfg.maxRequestBytes,
		requestTimeout:  cfg.requestTimeout,
		shutdownTimeout: cfg.shutdownTimeout,
	}
	s.routes()
	return s
}

// ServeHTTP satisfies the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /{$}", s.handleWordFrequency)
	s.mux.HandleFunc("GET /{$}", s.handleWordCount)
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down.
// Requests in flight when ctx ends run to completion within the shutdown
// timeout; after that their connections are closed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.logRequests(s),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("http shutdown error", "error", err)
		_ = httpServer.Close()
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
