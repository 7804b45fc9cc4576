// Package server exposes the formula engine over HTTP for grid frontends:
// validation, completion, signature help, and the apply gate.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/gridleaf-labs/cellform/internal/columns"
	"github.com/gridleaf-labs/cellform/internal/editor"
	"github.com/gridleaf-labs/cellform/pkg/formula"
)

// Config holds configuration for the API server.
type Config struct {
	Catalog       formula.Catalog
	Columns       []string
	ColumnSource  string // optional file to watch for column changes
	Applier       editor.Applier
	Port          int
	SessionSecret string
	Logger        *slog.Logger
}

// Server is the formula API server.
type Server struct {
	catalog      formula.Catalog
	applier      editor.Applier
	port         int
	columnSource string
	logger       *slog.Logger
	registry     *registry

	colMu sync.RWMutex
	cols  []string
}

// NewServer creates an API server instance.
func NewServer(cfg Config) *Server {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.MaxAge(86400)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode

	s := &Server{
		catalog:      cfg.Catalog,
		applier:      cfg.Applier,
		port:         cfg.Port,
		columnSource: cfg.ColumnSource,
		logger:       cfg.Logger,
		cols:         cfg.Columns,
	}
	s.registry = newRegistry(cfg.Catalog, s.columns, store)
	return s
}

// columns returns the current column snapshot.
func (s *Server) columns() []string {
	s.colMu.RLock()
	defer s.colMu.RUnlock()
	return s.cols
}

func (s *Server) setColumns(cols []string) {
	s.colMu.Lock()
	s.cols = cols
	s.colMu.Unlock()
}

// Routes builds the API router.
func (s *Server) Routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/complete", s.handleComplete)
		r.Post("/signature", s.handleSignature)
		r.Post("/apply", s.handleApply)
		r.Get("/functions", s.handleFunctions)
		r.Get("/columns", s.handleColumns)
	})

	return r
}

// Serve starts the API server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting formula API server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.columnSource != "" {
		eg.Go(func() error {
			err := columns.Watch(egctx, s.columnSource, s.setColumns)
			if err == context.Canceled {
				return nil
			}
			return err
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
