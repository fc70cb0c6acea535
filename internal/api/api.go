// Package api exposes a live board over HTTP.
//
// The server is a thin JSON layer over [board.Manager]: every mutation goes
// through the manager, so layout invariants hold no matter which surface
// drives the board. Pixel quantities cross the boundary here and are
// converted to world units with the view mapper before they reach the
// manager.
//
// # Endpoints
//
//	GET    /api/board            full board document (same schema as the JSON sink)
//	PUT    /api/board/spacing    set gutter spacing from a pixel measurement
//	GET    /api/panels           list panels
//	POST   /api/panels           add a panel
//	GET    /api/panels/{id}      fetch one panel
//	PATCH  /api/panels/{id}      update settings or placement
//	DELETE /api/panels/{id}      remove a panel
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/boardkit/gridboard/pkg/board"
	"github.com/boardkit/gridboard/pkg/board/view"
	"github.com/boardkit/gridboard/pkg/observability"
)

// DefaultAddr is the listen address used when no option overrides it.
const DefaultAddr = ":8080"

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server hosts one board behind the JSON API. Handlers serialize through a
// mutex because the manager re-lays out on every mutation.
type Server struct {
	addr   string
	logger *log.Logger
	mapper view.Mapper

	mu  sync.Mutex
	mgr *board.Manager

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. The default is DefaultAddr.
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMapper sets the pixel-to-world mapper used for spacing updates. The
// default assumes an 800px-tall viewport with the stock camera.
func WithMapper(m view.Mapper) Option {
	return func(s *Server) { s.mapper = m }
}

// NewServer builds a server over an existing board manager.
func NewServer(mgr *board.Manager, opts ...Option) *Server {
	s := &Server{
		addr:   DefaultAddr,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		mapper: defaultMapper(),
		mgr:    mgr,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

func defaultMapper() view.Mapper {
	return view.NewMapper(view.Camera{
		FOVDegrees:       view.DefaultFOVDegrees,
		ViewportHeightPx: 800,
		Distance:         view.DefaultDistance,
	}, 1280)
}

// Handler returns the route tree. It is exposed so tests and embedding hosts
// can mount the API without the server lifecycle.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Route("/api", func(r chi.Router) {
		r.Get("/board", s.handleGetBoard)
		r.Put("/board/spacing", s.handlePutSpacing)
		r.Route("/panels", func(r chi.Router) {
			r.Get("/", s.handleListPanels)
			r.Post("/", s.handleCreatePanel)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetPanel)
				r.Patch("/", s.handlePatchPanel)
				r.Delete("/", s.handleDeletePanel)
			})
		})
	})

	return r
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	s.logger.Info("api listening", "addr", s.addr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// observe reports every request to the registered API hooks and the logger.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.API().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		observability.API().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), duration)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", duration)
	})
}
