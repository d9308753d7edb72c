package frontend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/meln5674/minimux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meln5674/frontend-entry-server/pkg/frontend/static"
)

const (
	DefaultIndexFile       = "index.html"
	DefaultWatchPollPeriod = 1 * time.Second
)

type Config struct {
	// BuildDir is the output directory of the front-end build, resolved once at startup
	BuildDir string
	// IndexFile is the entry file within BuildDir, index.html if unset
	IndexFile string
	// WatchPollPeriod is how often watchers check the entry file for changes
	WatchPollPeriod time.Duration
	// WatchPingInterval is how often watchers are pinged, those missing two pongs are disconnected
	WatchPingInterval time.Duration
	// Registry receives the server's collectors and is exposed on /metrics.
	// A private registry is used if nil.
	Registry *prometheus.Registry
	// LogOutput receives per-request access logs, stderr if nil
	LogOutput io.Writer
}

type Server struct {
	Config
	index   Asset
	metrics *Metrics
	mux     minimux.Mux
}

func New(cfg Config) *Server {
	if cfg.IndexFile == "" {
		cfg.IndexFile = DefaultIndexFile
	}
	if cfg.WatchPollPeriod <= 0 {
		cfg.WatchPollPeriod = DefaultWatchPollPeriod
	}
	if cfg.WatchPingInterval <= 0 {
		cfg.WatchPingInterval = DefaultWatchPingInterval
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if cfg.LogOutput == nil {
		cfg.LogOutput = os.Stderr
	}

	srv := Server{
		Config:  cfg,
		index:   NewAsset(filepath.Join(cfg.BuildDir, cfg.IndexFile)),
		metrics: NewMetrics(cfg.Registry),
	}

	metricsHandler := promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})

	srv.mux = minimux.Mux{
		DefaultHandler: minimux.NotFound,
		PreProcess:     minimux.LogPendingRequest(cfg.LogOutput),
		PostProcess:    minimux.LogCompletedRequestWithPanicTraces(cfg.LogOutput),
		Routes: []minimux.Route{
			minimux.LiteralPath("/").IsHandledByFunc(srv.serveIndex),
			minimux.
				LiteralPath("/api/v1/watch").
				WithMethods(http.MethodGet).
				IsHandledByFunc(srv.watch),
			minimux.
				LiteralPath("/metrics").
				WithMethods(http.MethodGet).
				IsHandledByFunc(func(ctx context.Context, w http.ResponseWriter, req *http.Request, _ map[string]string, _ error) error {
					metricsHandler.ServeHTTP(w, req)
					return nil
				}),
			minimux.
				PathWithVars("/static/(.+)", "path").
				WithMethods(http.MethodGet).
				IsHandledBy(static.Handler),
		},
	}

	return &srv
}

// Index is the entry file served on the root route
func (s *Server) Index() Asset {
	return s.index
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	ensureRequestID(resp, req)
	s.mux.ServeHTTP(resp, req)
}

// serveIndex answers every request on the root route with the entry file, regardless of method, headers or body.
// The file is read again on each request so a rebuild is picked up without a restart.
func (s *Server) serveIndex(ctx context.Context, w http.ResponseWriter, req *http.Request, _ map[string]string, _ error) error {
	data, err := s.index.Read()
	if errors.Is(err, ErrAssetMissing) {
		s.metrics.IndexRequests.WithLabelValues(outcomeMissing).Inc()
		writeText(w, http.StatusNotImplemented, MissingAssetMessage(s.IndexFile))
		return nil
	}
	if err != nil {
		s.metrics.IndexRequests.WithLabelValues(outcomeError).Inc()
		slog.Error("failed to read index", "path", s.index.Path(), "error", err)
		writeText(w, http.StatusInternalServerError, "failed to read "+s.IndexFile)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	n, err := w.Write(data)
	s.metrics.IndexRequests.WithLabelValues(outcomeServed).Inc()
	s.metrics.IndexBytes.Add(float64(n))
	return err
}

// writeText is http.Error without the trailing newline, so bodies match their messages exactly
func writeText(w http.ResponseWriter, status int, msg string) {
	h := w.Header()
	h.Del("Content-Length")
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	io.WriteString(w, msg)
}
