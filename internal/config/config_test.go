package config

import (
	"os"
	"testing"
	"time"
)

func TestEnvOr(t *testing.T) {
	// Unset key returns fallback
	os.Unsetenv("TEST_ENVOR_KEY")
	if got := envOr("TEST_ENVOR_KEY", "default"); got != "default" {
		t.Errorf("envOr unset key = %q, want %q", got, "default")
	}

	// Set key returns value
	os.Setenv("TEST_ENVOR_KEY", "custom")
	defer os.Unsetenv("TEST_ENVOR_KEY")
	if got := envOr("TEST_ENVOR_KEY", "default"); got != "custom" {
		t.Errorf("envOr set key = %q, want %q", got, "custom")
	}

	// Empty string returns fallback
	os.Setenv("TEST_ENVOR_KEY", "")
	if got := envOr("TEST_ENVOR_KEY", "fallback"); got != "fallback" {
		t.Errorf("envOr empty key = %q, want %q", got, "fallback")
	}
}

func TestDurationOr(t *testing.T) {
	os.Unsetenv("TEST_DURATION_KEY")
	if got := durationOr("TEST_DURATION_KEY", time.Minute); got != time.Minute {
		t.Errorf("durationOr unset = %v, want %v", got, time.Minute)
	}

	os.Setenv("TEST_DURATION_KEY", "30s")
	defer os.Unsetenv("TEST_DURATION_KEY")
	if got := durationOr("TEST_DURATION_KEY", time.Minute); got != 30*time.Second {
		t.Errorf("durationOr set = %v, want %v", got, 30*time.Second)
	}

	// Garbage falls back to the default
	os.Setenv("TEST_DURATION_KEY", "soon")
	if got := durationOr("TEST_DURATION_KEY", time.Minute); got != time.Minute {
		t.Errorf("durationOr invalid = %v, want %v", got, time.Minute)
	}
}

func TestLoadDefaults(t *testing.T) {
	// Clear all relevant env vars
	for _, k := range []string{"PORT", "DATABASE_URL", "REDIS_URL", "REDIS_PASSWORD", "ALERT_WEBHOOK_URL", "FRONTEND_ORIGIN", "SWEEP_INTERVAL", "INFISICAL_CLIENT_ID", "INFISICAL_CLIENT_SECRET"} {
		os.Unsetenv(k)
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.FrontendOrigin != "*" {
		t.Errorf("FrontendOrigin = %q, want %q", cfg.FrontendOrigin, "*")
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.AlertWebhookURL != "" {
		t.Errorf("AlertWebhookURL = %q, want empty", cfg.AlertWebhookURL)
	}
	if cfg.SweepInterval != 5*time.Minute {
		t.Errorf("SweepInterval = %v, want %v", cfg.SweepInterval, 5*time.Minute)
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("ALERT_WEBHOOK_URL", "https://hooks.example.com/abc")
	os.Setenv("FRONTEND_ORIGIN", "http://localhost:3000")
	os.Setenv("SWEEP_INTERVAL", "90s")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("ALERT_WEBHOOK_URL")
		os.Unsetenv("FRONTEND_ORIGIN")
		os.Unsetenv("SWEEP_INTERVAL")
	}()

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9090")
	}
	if cfg.DatabaseURL != "postgres://test" {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, "postgres://test")
	}
	if cfg.AlertWebhookURL != "https://hooks.example.com/abc" {
		t.Errorf("AlertWebhookURL = %q", cfg.AlertWebhookURL)
	}
	if cfg.FrontendOrigin != "http://localhost:3000" {
		t.Errorf("FrontendOrigin = %q, want %q", cfg.FrontendOrigin, "http://localhost:3000")
	}
	if cfg.SweepInterval != 90*time.Second {
		t.Errorf("SweepInterval = %v, want %v", cfg.SweepInterval, 90*time.Second)
	}
}
