// Diagnose schema state over a direct Postgres connection:
//   go run ./cmd/diagnose
package main

import (
	"context"
	"os"

	"github.com/Qefaraki/alqefari-backend-ops/internal/diagnose"
	"github.com/Qefaraki/alqefari-backend-ops/internal/shared/config"
	"github.com/Qefaraki/alqefari-backend-ops/internal/shared/report"
	"github.com/Qefaraki/alqefari-backend-ops/internal/shared/storage/db"
)

var (
	expectedTables = []string{"profiles", "marriages", "audit_log"}

	expectedProfileColumns = []string{
		"id", "hid", "name", "gender", "generation", "parent_id", "deleted_at", "version",
	}

	expectedFunctions = []string{
		"admin_create_profile", "admin_update_profile", "admin_delete_profile",
		"get_branch_data", "search_profiles", "admin_exec_sql",
	}
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
	database, err := db.Connect(ctx, dbURL, db.OptionsFromEnv(db.DefaultScriptOptions()))
	if err != nil {
		report.Failure("connect: %v", err)
		return 1
	}
	defer database.Close()

	report.Section("Schema diagnosis")
	var rep diagnose.Report
	if err := diagnose.Tables(ctx, database, &rep, expectedTables...); err != nil {
		report.Failure("table checks: %v", err)
		return 1
	}
	if err := diagnose.Columns(ctx, database, &rep, "profiles", expectedProfileColumns...); err != nil {
		report.Failure("column checks: %v", err)
		return 1
	}
	if err := diagnose.Functions(ctx, database, &rep, expectedFunctions...); err != nil {
		report.Failure("function checks: %v", err)
		return 1
	}

	rows := make([][]string, 0, len(rep.Checks))
	for _, c := range rep.Checks {
		status := "ok"
		if !c.OK {
			status = "MISSING"
		}
		rows = append(rows, []string{c.Kind, c.Name, status, c.Detail})
	}
	report.Table([]string{"KIND", "NAME", "STATUS", "DETAIL"}, rows)

	if failed := rep.Failed(); len(failed) > 0 {
		report.Failure("%d check(s) failed; run ./cmd/migrate or apply the patches", len(failed))
		return 1
	}
	report.Success("schema looks healthy")
	return 0
}
