package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("EVENT_WEEKDAY", "")
	t.Setenv("SPREADSHEET_RANGE_RSVPS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.StoreBackend != StoreSheets {
		t.Errorf("Expected sheets backend by default, got %s", cfg.StoreBackend)
	}
	if cfg.EventWeekday != "Saturday" {
		t.Errorf("Expected Saturday events by default, got %s", cfg.EventWeekday)
	}
	if cfg.RangeRSVPs != "RSVPs!A1:C" {
		t.Errorf("Unexpected RSVP range %s", cfg.RangeRSVPs)
	}
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(".env", []byte("TEAM_NAME=RHSG\nROSTER_BETA_ONLY=true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TEAM_NAME", "")
	t.Setenv("ROSTER_BETA_ONLY", "")
	// godotenv does not override variables that are already set, so clear them.
	os.Unsetenv("TEAM_NAME")
	os.Unsetenv("ROSTER_BETA_ONLY")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TeamName != "RHSG" {
		t.Errorf("Expected team name from .env, got %q", cfg.TeamName)
	}
	if !cfg.RosterBetaOnly {
		t.Error("Expected beta-only roster from .env")
	}
}

func TestLoadConfigRejectsBadBool(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TWILIO_VALIDATE_SIGNATURE", "sometimes")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for invalid boolean")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		StoreBackend:      StoreSheets,
		MessagingProvider: ProviderTwilio,
		RangeRoster:       "Roster!A1:D",
		RangeRSVPs:        "RSVPs!A1:C",
		RangeInboundLog:   "In!A1:C",
		RangeOutboundLog:  "Out!A1:C",
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected missing configuration error")
	}
	for _, key := range []string{"SPREADSHEET_ID", "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_PHONE_NUMBER"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("Expected %s in %q", key, err)
		}
	}

	cfg.StoreBackend = StoreMemory
	cfg.MessagingProvider = ProviderLog
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected memory/log config to be valid, got %v", err)
	}

	cfg.StoreBackend = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected unknown backend to be rejected")
	}
}
