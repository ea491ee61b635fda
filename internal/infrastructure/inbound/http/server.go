package delivery_http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	ports "blog-post-service/internal/domain/ports/output"
)

const readHeaderTimeout = 10 * time.Second

// Server is an http.Server bound to its own listener. Listen binds
// synchronously so bind failures surface before serving starts.
type Server struct {
	name     string
	server   *http.Server
	listener net.Listener
	address  string
	port     int
	log      ports.Logger
}

func NewServer(name string, handler http.Handler, address string, port int, log ports.Logger) *Server {
	return &Server{
		name: name,
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		address: address,
		port:    port,
		log:     log,
	}
}

func (s *Server) Listen() error {
	address := fmt.Sprintf("%s:%d", s.address, s.port)
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s for %s server: %w", address, s.name, err)
	}
	s.listener = lis

	s.log.Info("Server listening", slog.String("server", s.name), slog.String("address", lis.Addr().String()))
	return nil
}

// Addr is the bound address, useful when the configured port is 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run serves until Shutdown. A graceful stop returns nil.
func (s *Server) Run() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	s.log.Info("Starting server", slog.String("server", s.name))
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server: %w", s.name, err)
	}
	return nil
}

// Shutdown drains in-flight requests. It also releases a listener that was
// bound but never served.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server", slog.String("server", s.name))
	err := s.server.Shutdown(ctx)
	if s.listener != nil {
		if closeErr := s.listener.Close(); closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
			err = errors.Join(err, closeErr)
		}
	}
	if err != nil {
		return fmt.Errorf("%s server shutdown: %w", s.name, err)
	}
	return nil
}
