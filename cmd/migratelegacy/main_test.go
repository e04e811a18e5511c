package main

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SUPABASE_URL", "EXPO_PUBLIC_SUPABASE_URL",
		"SUPABASE_SERVICE_ROLE_KEY",
		"SUPABASE_ANON_KEY", "EXPO_PUBLIC_SUPABASE_ANON_KEY",
		"DATABASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestRunMissingDatabaseURL(t *testing.T) {
	clearCredentialEnv(t)

	if got := run(); got != 1 {
		t.Fatalf("run() = %d, want 1", got)
	}
}

// Credential checks run before the database connection is opened, so a
// missing service-role key exits without any network activity.
func TestRunMissingServiceRoleKeyNoNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(srv.Close)

	clearCredentialEnv(t)
	t.Setenv("SUPABASE_URL", srv.URL)
	t.Setenv("DATABASE_URL", "postgres://localhost:1/unreachable")

	if got := run(); got != 1 {
		t.Fatalf("run() = %d, want 1", got)
	}
	if hits.Load() != 0 {
		t.Fatalf("gateway was contacted %d time(s) without credentials", hits.Load())
	}
}
