package config

import (
	"errors"
	"os"
	"testing"

	"github.com/ozcotech/denklem/backend/model"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoad(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 9090
auth:
  jwt_secret: "test-secret"
  token_expire_hours: 48
log:
  level: "debug"
  format: "json"
store:
  max_sessions: 50
locale:
  default: "en"
calendar:
  time_zone: "Europe/Berlin"
rate_limit:
  requests_per_minute: 30
  burst: 5
week_offsets:
  labor_law: [3, 4]
  commercial_law: [6, 8]
  other: [2, 3]
users:
  - username: "testuser"
    password: "testpass"
    office: "istanbul-1"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Auth.TokenExpireHours != 48 {
		t.Errorf("Expected token_expire_hours 48, got %d", cfg.Auth.TokenExpireHours)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected log format json, got %s", cfg.Log.Format)
	}
	if cfg.Store.MaxSessions != 50 {
		t.Errorf("Expected max_sessions 50, got %d", cfg.Store.MaxSessions)
	}
	if cfg.Locale.Default != "en" {
		t.Errorf("Expected locale en, got %s", cfg.Locale.Default)
	}
	if cfg.Location().String() != "Europe/Berlin" {
		t.Errorf("Expected Europe/Berlin, got %s", cfg.Location())
	}
	if cfg.RateLimit.RequestsPerMinute != 30 || cfg.RateLimit.Burst != 5 {
		t.Errorf("Unexpected rate limit %+v", cfg.RateLimit)
	}
	if len(cfg.WeekOffsets) != 3 {
		t.Errorf("Expected 3 week offsets, got %d", len(cfg.WeekOffsets))
	}
	if cfg.WeekOffsets[model.FallbackTableKey] != (model.WeekOffset{Normal: 2, Extended: 3}) {
		t.Errorf("Unexpected fallback entry %+v", cfg.WeekOffsets[model.FallbackTableKey])
	}
	if len(cfg.Users) != 1 || cfg.Users[0].Office != "istanbul-1" {
		t.Errorf("Unexpected users %+v", cfg.Users)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeTempConfig(t, `
auth:
  jwt_secret: "secret"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Auth.TokenExpireHours != 24 {
		t.Errorf("Expected default token_expire_hours 24, got %d", cfg.Auth.TokenExpireHours)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Expected default log format text, got %s", cfg.Log.Format)
	}
	if cfg.Store.MaxSessions != 100 {
		t.Errorf("Expected default max_sessions 100, got %d", cfg.Store.MaxSessions)
	}
	if cfg.Locale.Default != "tr" {
		t.Errorf("Expected default locale tr, got %s", cfg.Locale.Default)
	}
	if cfg.Location().String() != "Europe/Istanbul" {
		t.Errorf("Expected default time zone Europe/Istanbul, got %s", cfg.Location())
	}
	if cfg.RateLimit.RequestsPerMinute != 100 || cfg.RateLimit.Burst != 100 {
		t.Errorf("Unexpected default rate limit %+v", cfg.RateLimit)
	}
	if len(cfg.WeekOffsets) != len(model.DefaultWeekOffsetTable()) {
		t.Errorf("Expected default week table, got %d entries", len(cfg.WeekOffsets))
	}
}

func TestLoadInvalidWeekOffset(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"extended not greater", "week_offsets:\n  labor_law: [4, 4]\n"},
		{"zero weeks", "week_offsets:\n  labor_law: [0, 2]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, tt.content))
			if !errors.Is(err, ErrInvalidWeekOffset) {
				t.Errorf("Expected ErrInvalidWeekOffset, got %v", err)
			}
		})
	}
}

func TestLoadMalformedWeekOffset(t *testing.T) {
	_, err := Load(writeTempConfig(t, "week_offsets:\n  labor_law: [3, 4, 5]\n"))
	if err == nil {
		t.Error("Expected error for three-value pair")
	}
}

func TestLoadInvalidTimeZone(t *testing.T) {
	_, err := Load(writeTempConfig(t, "calendar:\n  time_zone: \"Mars/Olympus\"\n"))
	if err == nil {
		t.Error("Expected error for unknown time zone")
	}
}

func TestLoadNonExistent(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeTempConfig(t, "invalid: yaml: content:"))
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLocationWithoutLoad(t *testing.T) {
	cfg := &Config{}
	if cfg.Location().String() != "UTC" {
		t.Errorf("Expected UTC, got %s", cfg.Location())
	}
}

func TestFindUser(t *testing.T) {
	cfg := &Config{
		Users: []User{
			{Username: "user1", Password: "pass1", Office: "office1"},
			{Username: "user2", Password: "pass2", Office: "office2"},
		},
	}

	user := cfg.FindUser("user1")
	if user == nil {
		t.Fatal("Expected to find user1")
	}
	if user.Password != "pass1" {
		t.Errorf("Expected password pass1, got %s", user.Password)
	}

	user = cfg.FindUser("nonexistent")
	if user != nil {
		t.Error("Expected nil for non-existent user")
	}
}
