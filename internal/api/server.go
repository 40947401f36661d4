package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/iseven/vnu-connect-x/pkg/logger"
)

// Server wraps the HTTP server around the router.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer creates a server listening on addr.
func NewServer(addr string, handler http.Handler, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		log: log.Component("server"),
	}
}

// Start serves until Stop is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("Server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info().Msg("Server stopping")
	return s.httpServer.Shutdown(ctx)
}
