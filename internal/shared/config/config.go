package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds everything the operational scripts read from the environment.
type Config struct {
	ProjectURL     string
	ServiceRoleKey string
	AnonKey        string
	DatabaseURL    string
	HTTPTimeout    time.Duration
}

// Credential is a project URL paired with one access key, ready to hand to the
// remote client.
type Credential struct {
	URL string
	Key string
}

// Load reads configuration from environment variables. The Expo-prefixed
// variants are accepted because the mobile app's .env files carry them.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		ProjectURL:     getEnvMulti("SUPABASE_URL", "EXPO_PUBLIC_SUPABASE_URL"),
		ServiceRoleKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		AnonKey:        getEnvMulti("SUPABASE_ANON_KEY", "EXPO_PUBLIC_SUPABASE_ANON_KEY"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		HTTPTimeout:    getSecondsEnv("HTTP_TIMEOUT", 30*time.Second),
	}
}

// AdminCredentials returns the project URL plus the service-role key, which
// every write-path script requires. It fails before any network activity when
// either value is absent.
func (c Config) AdminCredentials() (Credential, error) {
	if strings.TrimSpace(c.ProjectURL) == "" {
		return Credential{}, fmt.Errorf("SUPABASE_URL is not set")
	}
	if strings.TrimSpace(c.ServiceRoleKey) == "" {
		return Credential{}, fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is not set")
	}
	return Credential{URL: c.ProjectURL, Key: c.ServiceRoleKey}, nil
}

// ProbeCredentials returns credentials for read-only probes. The anon key is
// an accepted fallback when the service-role key is absent.
func (c Config) ProbeCredentials() (Credential, error) {
	if strings.TrimSpace(c.ProjectURL) == "" {
		return Credential{}, fmt.Errorf("SUPABASE_URL is not set")
	}
	key := c.ServiceRoleKey
	if strings.TrimSpace(key) == "" {
		key = c.AnonKey
	}
	if strings.TrimSpace(key) == "" {
		return Credential{}, fmt.Errorf("neither SUPABASE_SERVICE_ROLE_KEY nor SUPABASE_ANON_KEY is set")
	}
	return Credential{URL: c.ProjectURL, Key: key}, nil
}

// RequireDatabaseURL returns the direct Postgres connection string for scripts
// that bypass the REST gateway.
func (c Config) RequireDatabaseURL() (string, error) {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return "", fmt.Errorf("DATABASE_URL is not set")
	}
	return c.DatabaseURL, nil
}

// KeyRole decodes the role claim from an access key without verifying its
// signature. The platform's keys are JWTs whose "role" claim is
// "service_role" or "anon"; scripts use this to warn when the anon key is
// standing in for the service-role key. Returns "" when the key is not a
// decodable JWT.
func KeyRole(key string) string {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(strings.TrimSpace(key), jwt.MapClaims{})
	if err != nil {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

func getEnvMulti(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getSecondsEnv(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return def
	}
	return time.Duration(seconds) * time.Second
}
