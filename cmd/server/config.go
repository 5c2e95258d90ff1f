package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/kanban-api/internal/config"
)

// loadAppConfig loads the configuration from the optional file, .env and
// KANBAN_* environment variables.
func loadAppConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("auto_migrate", cfg.Database.AutoMigrate))
	return cfg, nil
}
