package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultURLsLimit is the maximum number of URLs per request.
	DefaultURLsLimit = 10

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

// Server is the HTTP front end of the rater.
type Server struct {
	engine          *gin.Engine
	urlsLimit       int
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithURLsLimit sets the maximum number of URLs per request.
// Values <= 0 are ignored.
func WithURLsLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.urlsLimit = n
		}
	}
}

// WithShutdownTimeout sets how long in-flight requests may take to finish
// after shutdown starts.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server that rates URLs with runner.
// Callers choose the gin mode with gin.SetMode before calling New.
func New(runner BatchRunner, opts ...Option) *Server {
	s := &Server{
		urlsLimit:       DefaultURLsLimit,
		shutdownTimeout: DefaultShutdownTimeout,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(RequestLogger(s.logger))
	engine.Use(RecoveryMiddleware(s.logger))
	engine.Use(ErrorMiddleware(s.logger))

	h := &rateHandler{runner: runner, urlsLimit: s.urlsLimit}
	engine.GET("/", h.rate)
	engine.GET("/healthz", healthz)
	engine.NoRoute(notFound)
	engine.NoMethod(methodNotAllowed)

	s.engine = engine
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe listens on addr and serves until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
