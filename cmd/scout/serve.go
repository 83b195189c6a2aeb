// ABOUTME: CLI command for running the HTTP API.
// ABOUTME: Serves the users and performance routes with graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/scout/internal/api"
	"github.com/harperreed/scout/internal/logger"
	"github.com/spf13/cobra"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API.

ROUTES:

  POST   /api/users/register
  GET    /api/users/athletes?sport&district&age&name
  GET    /api/users/{id}
  POST   /api/performance
  GET    /api/performance/{athleteId}?metric&limit
  DELETE /api/performance/records/{id}
  GET    /api/performance/{athleteId}/stats?metric&byMetric
  GET    /api/performance/{athleteId}/chart?metric&byMetric
  GET    /api/performance/{athleteId}/export.csv?metric
  GET    /healthz
  GET    /metrics

The listen address defaults to "addr" from config (":8080").

EXAMPLES:

  scout serve
  scout serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Addr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		log := logger.Named("http")

		// Root context with cancel on SIGINT/SIGTERM.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{
			Addr:              addr,
			Handler:           api.NewServer(svc, api.WithLogger(log)).Handler(ctx),
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("starting HTTP server", logger.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		log.Info("shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", logger.Error(err))
			return err
		}

		log.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
