// Package server exposes diagram sessions over HTTP.
//
// Each ambient object gets one live session, created on first request and
// driven by its own event loop. Clients read the current frame as PNG or
// JSON state, post pointer events and mode changes, or attach a websocket
// that streams pointer events in and frames out.
//
// # Routes
//
//	GET  /healthz
//	GET  /diagrams/{ambient}
//	GET  /diagrams/{ambient}/image.png
//	GET  /diagrams/{ambient}/positions
//	POST /diagrams/{ambient}/events
//	POST /diagrams/{ambient}/mode
//	GET  /diagrams/{ambient}/ws
package server

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lmfdb/latticeview/pkg/cache"
	"github.com/lmfdb/latticeview/pkg/errors"
	"github.com/lmfdb/latticeview/pkg/icon"
	"github.com/lmfdb/latticeview/pkg/infopanel"
	pkgio "github.com/lmfdb/latticeview/pkg/io"
	"github.com/lmfdb/latticeview/pkg/session"
)

// Loader fetches the diagram document of an ambient object.
type Loader func(ctx context.Context, ambient string) (*pkgio.Document, error)

// Config configures the server.
type Config struct {
	Addr           string
	AllowedOrigins []string
	Session        session.Config
	// Info enables a server-side info panel per diagram when non-nil.
	Info *infopanel.Config
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCache stores info-panel responses in c.
func WithCache(c cache.Cache) Option {
	return func(s *Server) { s.cache = c }
}

// WithIconLoader replaces the icon loader of every session.
func WithIconLoader(l icon.Loader) Option {
	return func(s *Server) { s.icons = l }
}

// Server owns the live diagram sessions.
type Server struct {
	cfg    Config
	load   Loader
	logger *log.Logger
	cache  cache.Cache
	icons  icon.Loader

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	diagrams map[string]*diagram
	wg       sync.WaitGroup
}

// New creates a server. Sessions live until Close.
func New(load Loader, cfg Config, opts ...Option) (*Server, error) {
	if load == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "server needs a diagram loader")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	s := &Server{
		cfg:      cfg,
		load:     load,
		diagrams: make(map[string]*diagram),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.cors)

	r.Get("/healthz", s.handleHealth)
	r.Route("/diagrams/{ambient}", func(r chi.Router) {
		r.Get("/", s.handleState)
		r.Get("/image.png", s.handleImage)
		r.Get("/positions", s.handlePositions)
		r.Post("/events", s.handleEvents)
		r.Post("/mode", s.handleMode)
		r.Get("/ws", s.handleWebSocket)
	})
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Close()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close stops every session and disconnects websocket clients.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}

// diagram returns the live session of ambient, starting it if needed.
func (s *Server) diagram(ctx context.Context, ambient string) (*diagram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.diagrams[ambient]; ok {
		return d, nil
	}
	if err := s.ctx.Err(); err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "server is shutting down")
	}

	doc, err := s.load(ctx, ambient)
	if err != nil {
		return nil, err
	}
	d, err := s.startDiagram(doc)
	if err != nil {
		return nil, err
	}
	s.diagrams[ambient] = d
	return d, nil
}
