package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/ezoic/lifeexp/pkg/errors"
	"github.com/ezoic/lifeexp/pkg/log"
)

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 5 * time.Second

// Server runs an http.Server until its context is cancelled.
type Server struct {
	ShutdownTimeout time.Duration

	srv    *http.Server
	logger log.Logger
}

// New creates a Server for handler on addr.
func New(addr string, handler http.Handler, logger log.Logger) *Server {
	return &Server{
		ShutdownTimeout: DefaultShutdownTimeout,
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.srv.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully. It
// returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("Server listening", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() {
		errc <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	s.logger.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve")
	}
	return nil
}
