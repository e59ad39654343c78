package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/store"
	"github.com/fyrsmithlabs/trackd/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the trackd HTTP server with the JSON API and dashboard.

Examples:
  # Start with defaults (localhost:9090)
  trackd serve

  # Start with a config file
  trackd serve --config ~/.config/trackd/config.yaml`,
	RunE: runServe,
}

// runServe starts the HTTP server and blocks until interrupted.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting trackd",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr()),
		zap.String("database", cfg.Database.Path))

	st, err := store.Open(ctx, cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()

	srv, err := web.NewServer(st, logger, &web.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.HTTPPort,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("server shutdown complete")
	return nil
}
