// Package web serves the catalogue search API over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	"github.com/imenihs/TRDB-Searcher/internal/config"
)

// Options configure the HTTP server.
type Options struct {
	Port    int
	Timeout time.Duration
	Config  *config.Config

	// Auth wraps protected routes. Nil leaves them open.
	Auth func(http.Handler) http.Handler
}

// StartServer serves until ctx is cancelled, then shuts down gracefully.
func StartServer(ctx context.Context, opts Options, l logr.Logger) error {
	// Create HTTP request multiplexer
	mux := http.NewServeMux()

	// Create router and register routes
	router := NewRouter(mux, opts.Config, l, opts.Auth, NewMetrics())
	router.RegisterRoutes()

	// Create HTTP server with timeouts
	addr := fmt.Sprintf(":%d", opts.Port)
	webServer := &http.Server{
		Addr:         addr,
		Handler:      router.RegisterMiddleware(),
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
		IdleTimeout:  opts.Timeout,
	}

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		l.Info("Starting web server", "port", opts.Port, "source", opts.Config.DataPath)
		if err := webServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case err, ok := <-errCh:
		if ok {
			l.Error(err, "Failed to start web server")
			return err
		}
		return nil
	case <-ctx.Done():
	}
	l.Info("Shutdown signal received, gracefully stopping web server")

	// Create a context with timeout for graceful shutdown
	ctxShutdown, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	// Shutdown the web server
	if err := webServer.Shutdown(ctxShutdown); err != nil {
		l.Error(err, "Error during graceful shutdown")
		return err
	}

	l.Info("Web server stopped")
	return nil
}
