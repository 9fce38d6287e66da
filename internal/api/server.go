package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ServerConfig holds configuration for the HTTP server
type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// DefaultServerConfig returns the server defaults. There is no write
// timeout so event streams can stay open.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:              ":3000",
		ReadHeaderTimeout: 15 * time.Second,
		ShutdownTimeout:   30 * time.Second,
	}
}

// Server serves the API until its context is cancelled
type Server struct {
	server *http.Server
	logger *slog.Logger
	config ServerConfig
}

// NewServer creates a new API server. Request contexts are cancelled as
// soon as shutdown begins, so open event streams end instead of holding
// shutdown until its timeout.
func NewServer(handler http.Handler, config ServerConfig, logger *slog.Logger) *Server {
	baseCtx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              config.Addr,
		Handler:           handler,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancel)

	return &Server{
		server: srv,
		logger: logger.With(slog.String("component", "http")),
		config: config,
	}
}

// Run listens on the configured address and blocks until ctx is cancelled
// or the listener fails. Cancellation triggers a graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("HTTP server listening", slog.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
