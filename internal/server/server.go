// Package server exposes the custom theme over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jsvensson/customtheme/internal/exporter"
	"github.com/jsvensson/customtheme/internal/theme"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("customtheme.server")

// Theme is the application surface the handlers drive.
type Theme interface {
	Read(ctx context.Context) (theme.Colors, theme.Metadata, error)
	Import(ctx context.Context, r io.Reader) bool
	ExportTheme(ctx context.Context) (exporter.Download, error)
	ExportTemplate(variant string) (exporter.Download, error)
	Clear(ctx context.Context) error
	Selector() theme.Selector
	SetSelector(ctx context.Context, sel theme.Selector) error
	Stylesheet(ctx context.Context) (string, error)
}

// Config holds HTTP server configuration.
type Config struct {
	// Listen is the address to bind to.
	Listen string
	// MaxImportBytes caps the size of an imported document.
	MaxImportBytes int64

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Listen:          "127.0.0.1:8080",
		MaxImportBytes:  1 << 20,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server serves the stylesheet and the theme API.
type Server struct {
	config     Config
	theme      Theme
	router     *chi.Mux
	httpServer *http.Server
}

// New creates a server for t. Zero fields of cfg take their defaults.
func New(cfg Config, t Theme) *Server {
	defaults := DefaultConfig()
	if cfg.Listen == "" {
		cfg.Listen = defaults.Listen
	}
	if cfg.MaxImportBytes <= 0 {
		cfg.MaxImportBytes = defaults.MaxImportBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RealIP)
	router.Use(requestLogger)
	router.Use(chimiddleware.Recoverer)

	s := &Server{config: cfg, theme: t, router: router}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/theme.css", s.serveStylesheet)
	s.router.Route("/api/theme", func(r chi.Router) {
		r.Get("/", s.readTheme)
		r.Delete("/", s.clearTheme)
		r.Post("/import", s.importTheme)
		r.Get("/export", s.exportTheme)
		r.Get("/templates/{variant}", s.exportTemplate)
		r.Get("/selector", s.getSelector)
		r.Put("/selector", s.putSelector)
	})
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and blocks until the server stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.config.Listen,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	log.Infof("listening on %s", s.config.Listen)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	log.Infof("server stopped")
	return nil
}

// ListenAndServe runs the server until ctx is cancelled or it fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}
