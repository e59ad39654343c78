// Trackd is a project and task tracking server.
//
// It stores projects and their tasks in a local SQLite database and exposes
// them two ways: an MCP server over stdio for agent integration, and an HTTP
// server with a JSON API and a small dashboard.
//
// Usage:
//
//	# Start the HTTP server
//	trackd serve
//
//	# Run as an MCP stdio server
//	trackd stdio
//
//	# Configure via file or environment
//	trackd serve --config ~/.config/trackd/config.yaml
//	SERVER_HTTP_PORT=8080 trackd serve
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/trackd/internal/config"
	"github.com/fyrsmithlabs/trackd/internal/logging"

	"go.uber.org/zap"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// configPath is the --config flag value, empty means defaults plus environment.
var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "trackd",
	Short: "Project and task tracking server",
	Long: `trackd tracks projects and their tasks in a local SQLite database.

It can run as an HTTP server with a JSON API and dashboard, or as an
MCP server over stdio for agent integration.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (YAML)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stdioCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("trackd\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}

// loadConfigAndLogger is the shared setup for serve and stdio: load and
// validate configuration, then build the logger it describes. The logger
// always writes to stderr so stdio mode keeps stdout for the MCP protocol.
func loadConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, logger, nil
}
