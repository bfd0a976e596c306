package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"codeme-client/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Server runs the companion HTTP server in the background
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	done       chan error
}

// NewServer creates a server for handler on addr (host:port; port 0 picks a free one)
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		done: make(chan error, 1),
	}
}

// Start binds the listener and serves in the background. Binding happens
// before Start returns so a busy port is reported to the caller.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener

	logger.New().Infof("Companion server listening on %s", listener.Addr())

	go func() {
		err := s.httpServer.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			logger.New().WithError(err).Error("Companion server stopped")
		}
		s.done <- err
	}()
	return nil
}

// Addr returns the bound address, or nil before Start
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// BaseURL returns the http URL of the bound address
func (s *Server) BaseURL() string {
	addr := s.Addr()
	if addr == nil {
		return ""
	}
	return "http://" + addr.String()
}

// Wait blocks until the server stops or ctx is done, then shuts it down
func (s *Server) Wait(ctx context.Context) error {
	select {
	case err := <-s.done:
		return err
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops the server, letting in-flight requests finish until ctx is
// done or the shutdown timeout passes
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.New().Debug("Stopping companion server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
