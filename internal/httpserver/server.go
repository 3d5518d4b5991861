package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/omnibox/internal/config"
	"github.com/MrSnakeDoc/omnibox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/omnibox/internal/httpserver/mw"
	"github.com/MrSnakeDoc/omnibox/internal/httpserver/routes"
	"github.com/MrSnakeDoc/omnibox/internal/logger"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	http    *http.Server
	logger  logger.Logger
	started time.Time
}

// New builds the HTTP server (router, middlewares, route registration).
func New(cfg *config.Config, loggerClient logger.Logger, d deps.Deps) *Server {
	r := chi.NewRouter()

	// --- Global middlewares (safe defaults)
	r.Use(middleware.GetHead)
	r.Use(middleware.RequestID)                                      // X-Request-ID on each request
	r.Use(middleware.Recoverer)                                      // never crash the process on panic
	r.Use(mw.UnlessUpgrade(middleware.Timeout(requestTimeout(cfg)))) // leaves room for live search; streams are exempt
	r.Use(mw.Log(loggerClient))                                      // structured access logs
	r.Use(mw.CORS(cfg.AllowedOrigins))                               // browser clients (extensions, new tab pages)

	routes.RegisterAll(r, d)

	s := &http.Server{
		Addr:              cfg.ListenPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return &Server{
		http:    s,
		logger:  loggerClient,
		started: d.StartTime,
	}
}

// requestTimeout bounds a request by the live search budget plus headroom
func requestTimeout(cfg *config.Config) time.Duration {
	timeout := 2 * time.Second
	if search := cfg.SearchTimeout * time.Duration(cfg.SearchRetryMax+1); search+time.Second > timeout {
		timeout = search + time.Second
	}
	return timeout
}

// Start runs the HTTP server (blocks until error or shutdown).
func (s *Server) Start() error {
	s.logger.Infof("HTTP server listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server with the provided context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down...")
	return s.http.Shutdown(ctx)
}

// Handler returns the router, for in-process use.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
