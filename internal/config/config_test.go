package config

import (
	"os"
	"testing"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	_, err := Load()
	if err == nil {
		t.Error("expected error when DATABASE_URL is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/clinic")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.CalendarMaxDays != 365 {
		t.Errorf("expected default calendar cap 365, got %d", cfg.CalendarMaxDays)
	}
	if cfg.LowStockThreshold != 10 {
		t.Errorf("expected default low stock threshold 10, got %d", cfg.LowStockThreshold)
	}
}

func TestValidate_ProductionRequiresIssuer(t *testing.T) {
	cfg := &Config{Env: "production", CalendarMaxDays: 365}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for production without AUTH_ISSUER")
	}
	cfg.AuthIssuer = "https://auth.example.com"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_DevAllowsMissingIssuer(t *testing.T) {
	cfg := &Config{Env: "development", CalendarMaxDays: 365}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_CalendarCap(t *testing.T) {
	cfg := &Config{Env: "development", CalendarMaxDays: 0}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive CALENDAR_MAX_DAYS")
	}
}

func TestValidate_LowStockThreshold(t *testing.T) {
	cfg := &Config{Env: "development", CalendarMaxDays: 365, LowStockThreshold: -1}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative LOW_STOCK_THRESHOLD")
	}
}
