package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"authflow/internal/database"
	"authflow/internal/logging"
)

// migrateConfig is the subset of the server configuration the migrator
// needs; JWT and SMTP settings are not required here.
type migrateConfig struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"./migrations"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	var cfg migrateConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURL, "authflow-migrate")
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.ApplyMigrations(ctx, db, os.DirFS(cfg.MigrationsDir)); err != nil {
		logger.Error("migration failed", "dir", cfg.MigrationsDir, "error", err)
		db.Close()
		os.Exit(1)
	}

	logger.Info("migrations applied", "dir", cfg.MigrationsDir)
}
