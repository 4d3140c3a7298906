package web

import (
	"net/http"
	"strings"

	"github.com/go-logr/logr"

	trdb "github.com/imenihs/TRDB-Searcher"
	"github.com/imenihs/TRDB-Searcher/internal/config"
)

// Router provides HTTP handlers for the API endpoints.
type Router struct {
	mux            *http.ServeMux
	conf           *config.Config
	source         *trdb.Source
	library        *trdb.Library
	log            logr.Logger
	metrics        *Metrics
	authMiddleware func(http.Handler) http.Handler
}

// NewRouter creates a router over the catalogue and document store named by
// conf. A nil authMiddleware leaves every route open.
func NewRouter(mux *http.ServeMux, conf *config.Config, log logr.Logger, authMiddleware func(http.Handler) http.Handler, metrics *Metrics) *Router {
	if authMiddleware == nil {
		authMiddleware = func(next http.Handler) http.Handler { return next }
	}
	return &Router{
		mux:            mux,
		conf:           conf,
		source:         trdb.NewSource(conf.DataPath, trdb.Config{}),
		library:        trdb.NewLibrary(conf.PDFFSBase),
		log:            log,
		metrics:        metrics,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all routes on the mux.
func (r *Router) RegisterRoutes() {
	// Catalogue API, behind authentication when configured
	r.mux.Handle("GET /api/search", r.authMiddleware(http.HandlerFunc(r.SearchHandler)))
	r.mux.Handle("GET /api/export", r.authMiddleware(http.HandlerFunc(r.ExportHandler)))
	r.mux.Handle("GET /api/offsets", r.authMiddleware(http.HandlerFunc(r.OffsetsHandler)))
	r.mux.Handle("GET /pdf", r.authMiddleware(http.HandlerFunc(r.PDFHandler)))

	// Probes
	r.mux.HandleFunc("GET /healthz", r.HealthzHandler)
	r.mux.Handle("GET /metrics", r.metrics.Handler())
}

// RegisterMiddleware wraps the mux with request ID, logging, and compression
// middleware.
func (r *Router) RegisterMiddleware() http.Handler {
	return RequestIDMiddleware(LoggingMiddleware(r.log, CompressionMiddleware(r.mux)))
}

// HealthzHandler handles GET /healthz.
func (r *Router) HealthzHandler(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// isAPIRequest returns true if the request is for an API endpoint.
func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
