// Package server exposes a store over a stateless JSON-over-HTTP
// boundary. Every request names a store file; the handler loads it
// fresh, applies the operation, and for mutations writes it back.
//
// Two concurrent requests against the same file can race: whichever
// save lands last wins. The boundary offers no cross-process locking.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	kvdb "github.com/kvdb-io/kvdb"
)

const (
	// DefaultTopK mirrors the CLI default for queries that omit top_k.
	DefaultTopK = 5

	shutdownTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Logger *kvdb.Logger

	// RateLimit caps the sustained request rate across all endpoints.
	// Zero disables limiting.
	RateLimit rate.Limit
	Burst     int
}

// DefaultOptions leaves rate limiting off and logs to stderr.
var DefaultOptions = Options{
	Logger: kvdb.NewLogger(nil),
}

// Server routes the JSON boundary. It holds no store state.
type Server struct {
	logger  *kvdb.Logger
	limiter *rate.Limiter
	router  chi.Router
}

// New creates a Server.
func New(optFns ...func(o *Options)) *Server {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = kvdb.NoopLogger()
	}

	s := &Server{
		logger: opts.Logger,
	}

	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = max(int(opts.RateLimit), 1)
		}

		s.limiter = rate.NewLimiter(opts.RateLimit, burst)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	if s.limiter != nil {
		r.Use(s.throttle)
	}

	r.Post("/insert", s.handleInsert)
	r.Post("/search", s.handleSearch)
	r.Post("/get", s.handleGet)
	r.Post("/delete", s.handleDelete)

	s.router = r

	return s
}

// WithLogger sets the request logger.
func WithLogger(logger *kvdb.Logger) func(o *Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithRateLimit enables request throttling.
func WithRateLimit(limit rate.Limit, burst int) func(o *Options) {
	return func(o *Options) {
		o.RateLimit = limit
		o.Burst = burst
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
