package verify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Qefaraki/alqefari-backend-ops/internal/supabase"
	"github.com/google/uuid"
)

type fakeCaller struct {
	errs map[string]error
}

func (f *fakeCaller) RPC(ctx context.Context, fn string, args map[string]any) (json.RawMessage, error) {
	if err, ok := f.errs[fn]; ok {
		return nil, err
	}
	return json.RawMessage(`null`), nil
}

func notFoundErr(fn string) error {
	return &supabase.APIError{
		StatusCode: 404,
		Code:       "PGRST202",
		Message:    "Could not find the function public." + fn + " in the schema cache",
	}
}

func TestRunClassification(t *testing.T) {
	caller := &fakeCaller{errs: map[string]error{
		"missing_fn": notFoundErr("missing_fn"),
		"bad_args": &supabase.APIError{
			StatusCode: 400,
			Message:    "invalid input syntax for type uuid",
		},
		"unreachable": errors.New("dial tcp: connection refused"),
	}}

	cases := []struct {
		fn   string
		want Status
	}{
		{"ok_fn", Exists},
		{"missing_fn", Missing},
		{"bad_args", Exists},
		{"unreachable", Inconclusive},
	}
	for _, tc := range cases {
		got := Run(context.Background(), caller, Probe{Function: tc.fn})
		if got.Status != tc.want {
			t.Errorf("Run(%s) = %v, want %v", tc.fn, got.Status, tc.want)
		}
	}
}

// A function that exists but whose body touches a dropped relation fails
// with "relation ... does not exist". That proves the function is there; only
// the function wordings count as missing.
func TestRunDroppedRelationIsNotMissing(t *testing.T) {
	caller := &fakeCaller{errs: map[string]error{
		"get_branch_data": &supabase.APIError{
			StatusCode: 400,
			Code:       "42P01",
			Message:    `relation "family_tree" does not exist`,
		},
	}}
	got := Run(context.Background(), caller, Probe{Function: "get_branch_data"})
	if got.Status != Exists {
		t.Fatalf("status = %v, want Exists (detail %q)", got.Status, got.Detail)
	}
}

func TestRunLegacyNotFoundWording(t *testing.T) {
	caller := &fakeCaller{errs: map[string]error{
		"old_fn": &supabase.APIError{
			StatusCode: 404,
			Message:    "function public.old_fn(uuid) does not exist",
		},
	}}
	got := Run(context.Background(), caller, Probe{Function: "old_fn"})
	if got.Status != Missing {
		t.Fatalf("status = %v, want Missing", got.Status)
	}
}

func TestAllOneMissingFailsBatch(t *testing.T) {
	caller := &fakeCaller{errs: map[string]error{
		"admin_delete_profile": notFoundErr("admin_delete_profile"),
	}}

	probes := []Probe{
		{Function: "admin_create_profile", Args: map[string]any{"p_name": "", "p_parent_id": uuid.Nil.String()}},
		{Function: "admin_update_profile", Args: map[string]any{"p_id": uuid.Nil.String()}},
		{Function: "admin_delete_profile", Args: map[string]any{"p_id": uuid.Nil.String()}},
	}

	results, ok := All(context.Background(), caller, probes)
	if ok {
		t.Fatal("expected overall failure")
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	var existing, missing int
	for _, r := range results {
		switch r.Status {
		case Exists:
			existing++
		case Missing:
			missing++
		}
	}
	if existing != 2 || missing != 1 {
		t.Fatalf("existing=%d missing=%d, want 2/1", existing, missing)
	}
}

func TestAllInconclusiveDoesNotFailBatch(t *testing.T) {
	caller := &fakeCaller{errs: map[string]error{
		"flaky": errors.New("context deadline exceeded"),
	}}
	results, ok := All(context.Background(), caller, []Probe{{Function: "flaky"}})
	if !ok {
		t.Fatal("inconclusive probe should not fail the batch")
	}
	if results[0].Status != Inconclusive {
		t.Fatalf("status = %v", results[0].Status)
	}
}

func TestStatusString(t *testing.T) {
	if Missing.String() != "NOT FOUND" {
		t.Fatalf("Missing.String() = %q", Missing.String())
	}
}
