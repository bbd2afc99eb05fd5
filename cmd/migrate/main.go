package main

// Run database migrations:
//   go run ./cmd/migrate [up|down|status]

import (
	"context"
	"fmt"
	"os"

	"career-coach/internal/shared/config"
	"career-coach/internal/shared/storage/db"
	"career-coach/internal/shared/telemetry"
)

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	if err := run(context.Background(), command); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": command, "error": err})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"command": command})
}

func run(ctx context.Context, command string) error {
	cfg := config.Load()
	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer sqlDB.Close()

	switch command {
	case "up":
		return db.RunMigrations(ctx, sqlDB)
	case "down":
		return db.RollbackMigration(ctx, sqlDB)
	case "status":
		return db.MigrationStatus(ctx, sqlDB)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
