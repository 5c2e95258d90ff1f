// Package main implements the entry point of the board service API: it loads
// configuration, sets up logging and the database, and either runs a goose
// migration command or serves HTTP until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default ./config.yaml)")
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status, version, reset) and exit")
	flag.Parse()

	if err := run(*configPath, *migrateCmd); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func run(configPath, migrateCmd string) error {
	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer closeDB(db, logger)
		return runMigrations(context.Background(), db, migrateCmd, logger)
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrations(context.Background(), db, "up", logger); err != nil {
			closeDB(db, logger)
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		closeDB(db, logger)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting board service", slog.Int("port", cfg.Server.Port))
	return app.Run(ctx)
}
