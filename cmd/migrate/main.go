package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"github.com/Skotchmaster/product_catalog/pkg/config"
	"github.com/Skotchmaster/product_catalog/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", "migrate")

	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		logger.Error("usage: migrate <up|down|version>")
		os.Exit(1)
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	source := config.EnvDefault("MIGRATIONS_PATH", "file://migrations")

	m, err := migrate.New(source, cfg.DatabaseURL)
	if err != nil {
		logger.Error("migrate_init_failed", "error", err)
		os.Exit(1)
	}
	defer func() { _, _ = m.Close() }()

	switch command := args[0]; command {
	case "up":
		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no pending migrations")
			return
		}
		if err != nil {
			logger.Error("migration_up_failed", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations applied")

	case "down":
		err = m.Steps(-1)
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no migrations to roll back")
			return
		}
		if err != nil {
			logger.Error("migration_down_failed", "error", err)
			os.Exit(1)
		}
		logger.Info("migration rolled back")

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("no migrations applied yet")
			return
		}
		if err != nil {
			logger.Error("migration_version_failed", "error", err)
			os.Exit(1)
		}
		logger.Info("current migration version", "version", version, "dirty", dirty)

	default:
		logger.Error("unknown command", "command", command)
		os.Exit(1)
	}
}
