// Package server exposes the registry's query operations over HTTP:
// resolve, navigation tree, tag lookup, and the last link verification
// report, plus health probes and Prometheus metrics.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/docregistry/internal/config"
	"git.home.luguber.info/inful/docregistry/internal/daemon"
	derrors "git.home.luguber.info/inful/docregistry/internal/foundation/errors"
	"git.home.luguber.info/inful/docregistry/internal/linkreport"
	"git.home.luguber.info/inful/docregistry/internal/logfields"
	"git.home.luguber.info/inful/docregistry/internal/metrics"
)

var errMissingPathParam = derrors.ConfigError("missing required query parameter").
	WithContext("parameter", "path").
	Build()

// Server serves the registry query API.
type Server struct {
	cfg      config.ServerConfig
	holder   *daemon.Holder
	adapter  *derrors.HTTPErrorAdapter
	recorder metrics.Recorder
	promReg  *prom.Registry

	httpServer *http.Server

	mu         sync.RWMutex
	lastReport *linkreport.Report
}

// New constructs a server over the given registry holder.
func New(cfg config.ServerConfig, holder *daemon.Holder) *Server {
	return &Server{
		cfg:      cfg,
		holder:   holder,
		adapter:  derrors.NewHTTPErrorAdapter(slog.Default()),
		recorder: metrics.NoopRecorder{},
	}
}

// WithRecorder attaches a metrics recorder.
func (s *Server) WithRecorder(r metrics.Recorder) *Server {
	s.recorder = r
	return s
}

// WithPrometheusRegistry exposes the given registry at /metrics.
func (s *Server) WithPrometheusRegistry(reg *prom.Registry) *Server {
	s.promReg = reg
	return s
}

// SetReport stores the most recent verification report for /broken-links.
func (s *Server) SetReport(report *linkreport.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReport = report
}

// LastReport returns the most recent verification report, or nil.
func (s *Server) LastReport() *linkreport.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport
}

// Handler builds the route table wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/pages", s.handlePage)
	mux.HandleFunc("GET /api/v1/nav/{namespace}", s.handleNav)
	mux.HandleFunc("GET /api/v1/namespaces", s.handleNamespaces)
	mux.HandleFunc("GET /api/v1/tags/{namespace}/{tag}", s.handleTags)
	mux.HandleFunc("GET /api/v1/broken-links", s.handleBrokenLinks)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	if s.promReg != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.promReg, promhttp.HandlerOpts{}))
	}
	return chain(slog.Default(), s.adapter, mux)
}

// Start begins serving. It blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	slog.Info("HTTP server listening", logfields.Addr(s.cfg.Addr))
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return derrors.WrapError(err, derrors.CategoryInternal, "http server failed").
			WithContext("addr", s.cfg.Addr).
			Build()
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
