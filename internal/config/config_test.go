package config

import (
	"strings"
	"testing"
	"time"
)

func lookupFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"JWT_SECRET":           "secret",
		"OFFICE_DIRECTORY_URL": "https://offices.example.com/list",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want 5000", cfg.Port)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.GeofenceRadius != 250 {
		t.Errorf("GeofenceRadius = %v, want 250", cfg.GeofenceRadius)
	}
	if cfg.ReviewLock {
		t.Error("ReviewLock should default to false")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"JWT_SECRET":             "secret",
		"OFFICE_DIRECTORY_FILE":  "offices.yaml",
		"GEOFENCE_RADIUS_METERS": "100.5",
		"OFFICE_CACHE_TTL":       "0s",
		"REVIEW_LOCK":            "true",
		"CORS_ORIGINS":           "http://a.test, http://b.test,",
		"MEDIA_BASE_URL":         "http://media.local/",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.GeofenceRadius != 100.5 {
		t.Errorf("GeofenceRadius = %v", cfg.GeofenceRadius)
	}
	if cfg.OfficeCacheTTL != 0 {
		t.Errorf("OfficeCacheTTL = %v, want 0", cfg.OfficeCacheTTL)
	}
	if !cfg.ReviewLock {
		t.Error("ReviewLock = false, want true")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.MediaBaseURL != "http://media.local" {
		t.Errorf("MediaBaseURL = %q", cfg.MediaBaseURL)
	}
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{"OFFICE_DIRECTORY_URL": "x"}, "JWT_SECRET"},
		{"missing directory", map[string]string{"JWT_SECRET": "s"}, "OFFICE_"},
		{"bad duration", map[string]string{"JWT_SECRET": "s", "OFFICE_DIRECTORY_URL": "x", "TOKEN_TTL": "tomorrow"}, "TOKEN_TTL"},
		{"bad radius", map[string]string{"JWT_SECRET": "s", "OFFICE_DIRECTORY_URL": "x", "GEOFENCE_RADIUS_METERS": "-1"}, "GEOFENCE_RADIUS_METERS"},
		{"bad bool", map[string]string{"JWT_SECRET": "s", "OFFICE_DIRECTORY_URL": "x", "REVIEW_LOCK": "sometimes"}, "REVIEW_LOCK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(lookupFrom(tt.env))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
