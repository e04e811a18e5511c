// Apply the ad-hoc SQL patches under db/patches through the project's RPC
// executor:
//   go run ./cmd/applypatch
package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Qefaraki/alqefari-backend-ops/internal/patch"
	"github.com/Qefaraki/alqefari-backend-ops/internal/shared/config"
	"github.com/Qefaraki/alqefari-backend-ops/internal/shared/report"
	"github.com/Qefaraki/alqefari-backend-ops/internal/supabase"
)

const patchDir = "db/patches"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	cred, err := cfg.AdminCredentials()
	if err != nil {
		report.Failure("missing configuration: %v", err)
		return 1
	}
	if role := config.KeyRole(cred.Key); role != "" && role != "service_role" {
		report.Warning("access key role is %q; applying patches requires the service-role key", role)
	}

	client, err := supabase.New(cred.URL, cred.Key, cfg.HTTPTimeout)
	if err != nil {
		report.Failure("create client: %v", err)
		return 1
	}

	entries, err := os.ReadDir(patchDir)
	if err != nil {
		report.Failure("read %s: %v", patchDir, err)
		return 1
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		report.Warning("no patch files found in %s", patchDir)
		return 0
	}

	report.Section("Applying SQL patches")
	runner := &patch.Runner{Exec: client}
	ctx := context.Background()

	for _, name := range files {
		raw, err := os.ReadFile(filepath.Join(patchDir, name))
		if err != nil {
			report.Failure("read patch %s: %v", name, err)
			return 1
		}
		report.Step("applying %s", name)
		applied, err := runner.Apply(ctx, name, string(raw))
		if err != nil {
			var applyErr *patch.ApplyError
			if errors.As(err, &applyErr) {
				report.SQLRemediation(applyErr.Error(), applyErr.RemainingSQL())
			} else {
				report.Failure("apply %s: %v", name, err)
			}
			return 1
		}
		report.Success("%s: %d statement(s) applied", name, applied)
	}

	report.Success("all patches applied")
	return 0
}
