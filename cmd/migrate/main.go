package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"enhanceme/internal/shared/config"
	"enhanceme/internal/shared/storage/db"
	"enhanceme/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("config.load_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Setup(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	opts := db.OptionsFromConfig(db.DefaultMigrateOptions(), cfg.DB)
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", nil)
}
