package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/hyprland-community/Hyprmaid/internal/config"
	"github.com/hyprland-community/Hyprmaid/internal/handlers"
	"github.com/hyprland-community/Hyprmaid/internal/logger"
	"github.com/hyprland-community/Hyprmaid/internal/middleware"
)

// Server represents the HTTP health server
type Server struct {
	cfg        config.ServerConfig
	httpServer *http.Server
	listener   net.Listener
	handler    *handlers.Handler
	middleware *middleware.Middleware
	log        *logger.Logger
}

// New creates a new HTTP server
func New(cfg config.ServerConfig, handler *handlers.Handler, log *logger.Logger) *Server {
	return &Server{
		cfg:        cfg,
		handler:    handler,
		middleware: middleware.New(log, cfg.RateLimit, cfg.TrustProxy),
		log:        log,
	}
}

// Routes returns the server's handler with middleware applied
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handler.HealthCheck)
	mux.HandleFunc("/passes/last", s.handler.LastPass)

	return s.middleware.Chain(mux)
}

// Start binds the listen address and serves in the background. Serve
// failures after a successful bind are sent on errChan.
func (s *Server) Start(errChan chan<- error) error {
	listener, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address(), err)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	s.log.Infof("HTTP server listening on %s", listener.Addr())

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
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

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.log.Info("HTTP server shutdown complete")
	return nil
}
