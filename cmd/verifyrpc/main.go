// Verify that the administrative RPC functions exist on the project:
//   go run ./cmd/verifyrpc
//
// Each function is invoked with sentinel arguments (all-zero UUIDs, empty
// strings); the error text tells existing functions apart from missing ones.
package main

import (
	"context"
	"os"

	"github.com/google/uuid"

	"github.com/Qefaraki/alqefari-backend-ops/internal/shared/config"
	"github.com/Qefaraki/alqefari-backend-ops/internal/shared/report"
	"github.com/Qefaraki/alqefari-backend-ops/internal/supabase"
	"github.com/Qefaraki/alqefari-backend-ops/internal/verify"
)

func probes() []verify.Probe {
	zero := uuid.Nil.String()
	return []verify.Probe{
		{Function: "admin_create_profile", Args: map[string]any{"p_name": "", "p_gender": "", "p_parent_id": zero}},
		{Function: "admin_update_profile", Args: map[string]any{"p_id": zero, "p_version": 0, "p_updates": map[string]any{}}},
		{Function: "admin_delete_profile", Args: map[string]any{"p_id": zero}},
		{Function: "get_branch_data", Args: map[string]any{"p_hid": ""}},
		{Function: "search_profiles", Args: map[string]any{"p_query": "", "p_limit": 1}},
		{Function: "admin_exec_sql", Args: map[string]any{"sql": "SELECT 1"}},
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	cred, err := cfg.ProbeCredentials()
	if err != nil {
		report.Failure("missing configuration: %v", err)
		return 1
	}
	if role := config.KeyRole(cred.Key); role == "anon" {
		report.Warning("using the anon key; admin probes may report permission errors instead of results")
	}

	client, err := supabase.New(cred.URL, cred.Key, cfg.HTTPTimeout)
	if err != nil {
		report.Failure("create client: %v", err)
		return 1
	}

	report.Section("Verifying RPC functions")
	results, ok := verify.All(context.Background(), client, probes())

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Function, r.Status.String(), r.Detail})
	}
	report.Table([]string{"FUNCTION", "STATUS", "DETAIL"}, rows)

	if !ok {
		report.Failure("one or more functions are missing; re-run the migrations or apply the patches")
		return 1
	}
	report.Success("all functions present")
	return 0
}
