// Package server owns the HTTP listener lifecycle around the Gin router.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nearcart/nearcart-go/internal/application/container"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/internal/presentation/http/routes"
	"github.com/nearcart/nearcart-go/pkg/config"
)

// Server is the HTTP front of the dialogue backend. It holds the listener
// and drains in-flight turns on shutdown.
type Server struct {
	httpServer *http.Server
	logger     *logging.ChanneledLogger
}

// New wires the route tree into a listener on the given port.
func New(port string, c *container.Container) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      routes.SetupRoutes(c),
			ReadTimeout:  config.ServerReadTimeout,
			WriteTimeout: config.ServerWriteTimeout,
			IdleTimeout:  config.ServerIdleTimeout,
		},
		logger: c.Logger,
	}
}

// Start blocks serving requests until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Startup().Info("HTTP server listening", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Stop drains connections within the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Shutdown().Info("Draining HTTP connections")
	return s.httpServer.Shutdown(ctx)
}
