package main

import "testing"

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
