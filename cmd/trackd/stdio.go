package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/mcp"
	"github.com/fyrsmithlabs/trackd/internal/store"
)

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Run as an MCP server over stdio",
	Long: `Run trackd as an MCP server over stdio for agent integration.

Stdout carries the MCP protocol, so all logging goes to stderr.

Examples:
  # Run with defaults
  trackd stdio

  # Run with a config file
  trackd stdio --config ~/.config/trackd/config.yaml`,
	RunE: runStdio,
}

// runStdio starts the MCP stdio server and blocks until the client
// disconnects or the process is interrupted.
func runStdio(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting trackd in MCP stdio mode",
		zap.String("version", version),
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

	srv, err := mcp.NewServer(&mcp.Config{
		Name:    "trackd",
		Version: version,
		Logger:  logger,
	}, st)
	if err != nil {
		return fmt.Errorf("failed to create mcp server: %w", err)
	}

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("stdio server error: %w", err)
	}

	logger.Info("stdio server shutdown complete")
	return nil
}
