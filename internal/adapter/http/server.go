package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map/internal/dashboard"
	"github.com/couchcryptid/quake-map/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dashboard is the view-state container the server renders and refreshes.
type Dashboard interface {
	View(filter domain.MagnitudeFilter) dashboard.View
	Refresh() bool
	CheckReadiness(ctx context.Context) error
}

// MapSettings configures the tile layer drawn by the browser.
type MapSettings struct {
	TileURL         string
	TileAttribution string
}

// Server exposes the map page, the JSON API, and health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	dashboard  Dashboard
	mapCfg     MapSettings
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the page, API, /healthz, /readyz,
// and /metrics routes.
func NewServer(addr string, dash Dashboard, mapCfg MapSettings, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dashboard: dash,
		mapCfg:    mapCfg,
		logger:    logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/events", s.handleAPIEvents)
	mux.HandleFunc("POST /api/refresh", s.handleAPIRefresh)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(dash))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}
