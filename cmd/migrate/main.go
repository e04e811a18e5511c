// Run the versioned database migrations:
//   go run ./cmd/migrate
package main

import (
	"context"
	"os"

	"github.com/Qefaraki/alqefari-backend-ops/internal/shared/config"
	"github.com/Qefaraki/alqefari-backend-ops/internal/shared/report"
	"github.com/Qefaraki/alqefari-backend-ops/internal/shared/storage/db"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	dbURL, err := cfg.RequireDatabaseURL()
	if err != nil {
		report.Failure("missing configuration: %v", err)
		return 1
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, dbURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		report.Failure("connect: %v", err)
		return 1
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database); err != nil {
		report.Failure("run migrations: %v", err)
		return 1
	}
	report.Success("migrations applied")
	return 0
}
