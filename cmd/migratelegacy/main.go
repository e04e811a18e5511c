// Rewrite database functions still referencing the retired family_tree table
// so they use profiles, and re-apply their definitions:
//   go run ./cmd/migratelegacy
//
// The plan is printed before anything is executed. Statements are applied in
// order; a failure aborts the run and prints the unapplied definitions for
// manual application.
package main

import (
	"context"
	"os"
	"strings"

	"github.com/Qefaraki/alqefari-backend-ops/internal/legacy"
	"github.com/Qefaraki/alqefari-backend-ops/internal/shared/config"
	"github.com/Qefaraki/alqefari-backend-ops/internal/shared/report"
	"github.com/Qefaraki/alqefari-backend-ops/internal/shared/storage/db"
	"github.com/Qefaraki/alqefari-backend-ops/internal/supabase"
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
	cred, err := cfg.AdminCredentials()
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

	report.Section("Scanning for functions referencing " + legacy.LegacyTable)
	rewrites, err := legacy.ScanFunctions(ctx, database)
	if err != nil {
		report.Failure("scan: %v", err)
		return 1
	}
	if len(rewrites) == 0 {
		report.Success("no functions reference %s; nothing to migrate", legacy.LegacyTable)
		return 0
	}

	for _, rw := range rewrites {
		report.Step("%s: %s -> %s", rw.Function, legacy.LegacyTable, legacy.CurrentTable)
	}

	client, err := supabase.New(cred.URL, cred.Key, cfg.HTTPTimeout)
	if err != nil {
		report.Failure("create client: %v", err)
		return 1
	}

	report.Section("Applying rewritten definitions")
	for i, rw := range rewrites {
		if err := client.ExecSQL(ctx, rw.Updated); err != nil {
			var b strings.Builder
			for _, rest := range rewrites[i:] {
				b.WriteString(rest.Updated)
				b.WriteString(";\n\n")
			}
			report.SQLRemediation("rewrite of "+rw.Function+" failed: "+err.Error(), b.String())
			return 1
		}
		report.Success("%s migrated", rw.Function)
	}

	report.Success("%d function(s) migrated off %s", len(rewrites), legacy.LegacyTable)
	return 0
}
