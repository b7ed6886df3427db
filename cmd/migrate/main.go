package main

// Run journal migrations:
//   go run ./cmd/migrate [up|status]

import (
	"context"
	"os"

	"feedback-console/internal/shared/config"
	"feedback-console/internal/shared/storage/db"
	"feedback-console/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("config.invalid", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	switch command {
	case "up":
		err = db.RunMigrations(ctx, sqlDB.DB)
	case "status":
		err = db.MigrationStatus(ctx, sqlDB.DB)
	default:
		telemetry.Error("migrate.unknown_command", map[string]any{"command": command})
		os.Exit(2)
	}
	if err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": command, "error": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"command": command})
}
