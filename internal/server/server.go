// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	POST /v1/layout   lay out a graph document, optionally render it
//	POST /v1/render   render a previously computed layout
//	POST /v1/depths   dependency depths and column offsets of a graph
//	GET  /healthz     liveness
//	GET  /version     build information
//	GET  /metrics     Prometheus metrics
//
// Every layout request runs under the configured request timeout. When the
// deadline passes the evolution stops after the current generation and the
// best layout found so far is returned with "cancelled": true.
//
// Requests carrying an X-Client-ID header read and write cache entries in
// that client's own key namespace. Requests without one share the default
// namespace.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/genelayout/pkg/buildinfo"
	"github.com/matzehuels/genelayout/pkg/cache"
	"github.com/matzehuels/genelayout/pkg/observability"
	"github.com/matzehuels/genelayout/pkg/pipeline"
)

// ClientHeader selects the cache namespace of a request.
const ClientHeader = "X-Client-ID"

// Defaults for Config.
const (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxBodyBytes   = 8 << 20
)

// Config configures the HTTP service.
type Config struct {
	Addr           string        `toml:"addr"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	MaxBodyBytes   int64         `toml:"max_body_bytes"`
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return c
}

// Server is the layout HTTP service.
type Server struct {
	cfg     Config
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics *Metrics
	router  chi.Router
}

// New builds the service. A nil metrics disables /metrics.
func New(cfg Config, runner *pipeline.Runner, metrics *Metrics, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:     cfg.withDefaults(),
		runner:  runner,
		logger:  logger,
		metrics: metrics,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Post("/depths", s.handleDepths)
	})
	return r
}

// runnerFor returns the runner for r, with cache keys scoped to the client
// named in ClientHeader.
func (s *Server) runnerFor(r *http.Request) *pipeline.Runner {
	id := r.Header.Get(ClientHeader)
	if id == "" {
		return s.runner
	}
	scoped := *s.runner
	scoped.Keyer = cache.NewScopedKeyer(s.runner.Keyer, "client:"+id+":")
	return &scoped
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "timeout", s.cfg.RequestTimeout)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout+5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// instrument reports every request to the server hooks, labelled with the
// matched route pattern, and names the service in the Server header.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.Header().Set("Server", buildinfo.UserAgent())
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, route)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}
