package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
api:
  base_url: "https://gym.example.com/"
  timeout: 10s
state:
  dir: "/tmp/gymlog-test"
session:
  timezone: "UTC"
log:
  level: "debug"
devserver:
  host: "0.0.0.0"
  port: 9090
  jwt_secret: "s3cret"
  token_ttl: 2h
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://gym.example.com/" {
		t.Errorf("api.base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("api.timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.State.Dir != "/tmp/gymlog-test" {
		t.Errorf("state.dir = %q", cfg.State.Dir)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.SlogLevel())
	}
	if cfg.DevServer.Port != 9090 || cfg.DevServer.TokenTTL != 2*time.Hour {
		t.Errorf("devserver = %+v", cfg.DevServer)
	}
	if err := cfg.DevServer.Validate(); err != nil {
		t.Errorf("devserver validate: %v", err)
	}
	if cfg.DevServer.Addr() != "0.0.0.0:9090" {
		t.Errorf("addr = %q", cfg.DevServer.Addr())
	}
}

// TestLoadDefaults verifies an empty path yields a usable client configuration.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Errorf("api.base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("api.timeout = %v", cfg.API.Timeout)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("Location() = %v, %v; want UTC", loc, err)
	}
	// The client never needs a signing secret.
	if err := cfg.DevServer.Validate(); err == nil {
		t.Error("expected devserver validation to require a secret")
	}
}

// TestEnvOverride verifies that GYMLOG_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("GYMLOG_API_BASE_URL", "http://10.0.0.5:8080")
	t.Setenv("GYMLOG_API_TIMEOUT", "5s")
	t.Setenv("GYMLOG_DEVSERVER_PORT", "7000")
	t.Setenv("GYMLOG_DEVSERVER_JWT_SECRET", "env-secret")
	t.Setenv("GYMLOG_DEVSERVER_TIMEZONE", "Asia/Tokyo")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "http://10.0.0.5:8080" {
		t.Errorf("api.base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("api.timeout = %v", cfg.API.Timeout)
	}
	if cfg.DevServer.Port != 7000 || cfg.DevServer.JWTSecret != "env-secret" {
		t.Errorf("devserver = %+v", cfg.DevServer)
	}
	if loc, err := cfg.DevServer.Location(); err != nil || loc.String() != "Asia/Tokyo" {
		t.Errorf("devserver location = %v, %v", loc, err)
	}
	// Unchanged fields should keep YAML values
	if cfg.State.Dir != "/tmp/gymlog-test" {
		t.Errorf("state.dir = %q", cfg.State.Dir)
	}
}

// TestEnvOverrideBadDuration verifies a malformed duration is reported, not ignored.
func TestEnvOverrideBadDuration(t *testing.T) {
	t.Setenv("GYMLOG_API_TIMEOUT", "soon")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for bad timeout")
	}
}

// TestValidationRejects verifies values that would break the client at runtime.
func TestValidationRejects(t *testing.T) {
	cases := map[string]string{
		"relative url": "api:\n  base_url: \"/api\"\n",
		"bad scheme":   "api:\n  base_url: \"ftp://host\"\n",
		"bad timezone": "session:\n  timezone: \"Mars/Olympus\"\n",
		"bad level":    "log:\n  level: \"loud\"\n",
		"zero timeout": "api:\n  timeout: 0s\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeTemp(t, content)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

// TestDotEnv verifies .env values are picked up without overriding the real environment.
func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("GYMLOG_LOG_LEVEL=warn\nGYMLOG_TIMEZONE=Local\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("GYMLOG_LOG_LEVEL", "error")
	t.Setenv("GYMLOG_TIMEZONE", "")
	os.Unsetenv("GYMLOG_TIMEZONE")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SlogLevel() != slog.LevelError {
		t.Errorf("level = %v, want error from the real environment", cfg.SlogLevel())
	}
	if cfg.Session.Timezone != "Local" {
		t.Errorf("timezone = %q, want Local from .env", cfg.Session.Timezone)
	}
}

// TestLoadMissingFile verifies that a missing config file returns a clear error.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
