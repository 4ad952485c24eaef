// Package server exposes a tree store over a JSON HTTP API.
//
// # Routes
//
//	GET    /items                   every record
//	GET    /items/{id}              one record
//	GET    /items/{id}/children     direct children
//	GET    /items/{id}/descendants  all descendants
//	GET    /items/{id}/ancestors    all ancestors, nearest first
//	POST   /items                   add a record (an id is generated when absent)
//	PUT    /items/{id}              replace a record
//	DELETE /items/{id}              remove a record and its subtree
//	GET    /healthz                 liveness and record count
//	GET    /metrics                 Prometheus metrics, when configured
//
// Ids in paths are parsed with [tree.ParseID], so "/items/42" addresses the
// integer id 42. Add "?id_type=string" to address the string id "42".
//
// # Errors
//
// Failures are answered with {"code": "...", "error": "..."} and a status
// derived from the error code (see [errors.HTTPStatus]).
//
// # Concurrency
//
// A [tree.Store] is not safe for concurrent use, so the server guards it
// with a read/write mutex: reads share the lock, mutations take it
// exclusively.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Takheer/mstroy-test/pkg/tree"
)

// Config configures a [Server].
type Config struct {
	// Addr is the listen address. Defaults to ":8080".
	Addr string

	// ReadTimeout bounds reading a request, headers included.
	// Defaults to 5s.
	ReadTimeout time.Duration

	// Logger receives request and lifecycle logs. Defaults to log.Default().
	Logger *log.Logger

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// Metrics, when set, is mounted on /metrics.
	Metrics http.Handler

	// NewID generates ids for records posted without one.
	// Defaults to random UUIDs.
	NewID func() tree.ID
}

// Defaults applied by [New].
const (
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 5 * time.Second
	DefaultMaxBodyBytes = 1 << 20
)

// Server serves a single tree store.
type Server struct {
	mu     sync.RWMutex
	store  *tree.Store
	cfg    Config
	log    *log.Logger
	router chi.Router
}

// New creates a server over store. The server takes ownership of store:
// callers must not use it directly while the server is running.
func New(store *tree.Store, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.NewID == nil {
		cfg.NewID = func() tree.ID { return tree.StrID(uuid.NewString()) }
	}

	s := &Server{store: store, cfg: cfg, log: cfg.Logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.cfg.Metrics)
	}

	r.Route("/items", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handleUpdate)
			r.Delete("/", s.handleDelete)
			r.Get("/children", s.relation((*tree.Store).Children))
			r.Get("/descendants", s.relation((*tree.Store).Descendants))
			r.Get("/ancestors", s.relation((*tree.Store).Ancestors))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Code: "METHOD_NOT_ALLOWED", Error: r.Method + " not allowed on " + r.URL.Path})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully,
// giving in-flight requests up to ten seconds to finish.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr, "records", s.Len())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Len returns the current record count.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Len()
}
