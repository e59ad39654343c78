// Package config provides configuration loading for trackd.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SERVER_HTTP_PORT, DATABASE_PATH, LOGGING_LEVEL, ...)
//  2. YAML config file (~/.config/trackd/config.yaml by default)
//  3. Hardcoded defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fyrsmithlabs/trackd/internal/logging"
)

// Config holds the complete trackd configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Logging  logging.Config `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	HTTPPort        int           `koanf:"http_port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds SQLite storage configuration.
type DatabaseConfig struct {
	// Path is the SQLite database file. The parent directory is created on
	// first open.
	Path string `koanf:"path"`
}

// Addr returns the host:port listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// applyDefaults fills in zero values after unmarshaling.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 9090
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaultDatabasePath()
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = logging.DefaultConfig().Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = logging.DefaultConfig().Format
	}
}

// defaultDatabasePath places the database under the user's data directory,
// falling back to the working directory when home cannot be resolved.
func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "trackd.db"
	}
	return filepath.Join(home, ".local", "share", "trackd", "trackd.db")
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout cannot be negative: %s", c.Server.ShutdownTimeout)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
