package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imenihs/TRDB-Searcher/internal/auth"
	"github.com/imenihs/TRDB-Searcher/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the search API server",
	Args:  cobra.NoArgs,
	RunE:  serveCmdRun,
}

type serveFlags struct {
	port int
}

var serveArgs = serveFlags{port: 8080}

func init() {
	serveCmd.Flags().IntVar(&serveArgs.port, "port", serveArgs.port,
		"The port the HTTP server listens on.")
	rootCmd.AddCommand(serveCmd)
}

func serveCmdRun(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}

	authMiddleware, err := newAuthMiddleware(conf.UsersPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return web.StartServer(ctx, web.Options{
		Port:    serveArgs.port,
		Timeout: rootArgs.timeout,
		Config:  conf,
		Auth:    authMiddleware,
	}, logger)
}

// newAuthMiddleware loads the users file. An empty path disables
// authentication.
func newAuthMiddleware(path string) (func(http.Handler) http.Handler, error) {
	if path == "" {
		logger.Info("authentication disabled, no users file configured")
		return auth.NewMiddleware(nil), nil
	}
	store, err := auth.LoadStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	logger.Info("authentication initialized successfully", "users", store.Len(), "path", path)
	return auth.NewMiddleware(store), nil
}
