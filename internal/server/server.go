// Package server provides the HTTP API for kyori.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/kyori/internal/config"
	"github.com/hyperjump/kyori/internal/dataset"
	"github.com/hyperjump/kyori/internal/scorer"
)

// Server is the HTTP server for the kyori scoring API.
type Server struct {
	scorer     *scorer.Scorer
	loader     *dataset.Loader
	extensions []string
	config     *config.ServerConfig
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	sc *scorer.Scorer,
	loader *dataset.Loader,
	extensions []string,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		scorer:     sc,
		loader:     loader,
		extensions: extensions,
		config:     cfg,
		logger:     logger,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	// Scoring embeds every evaluation file; allow long requests.
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Post("/api/v1/score", s.handleScore)
	r.Get("/api/v1/background", s.handleBackground)
	r.Get("/health", s.handleHealth)
	return r
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
