package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/avnish/coldledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("BOOKS_CLOSED_BEFORE", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.SupplierState != "09" {
		t.Fatalf("expected default supplier state 09, got %s", cfg.SupplierState)
	}

	cutoff, err := cfg.BooksClosedCutoff()
	if err != nil {
		t.Fatalf("unexpected cutoff error: %v", err)
	}
	if !cutoff.IsZero() {
		t.Fatalf("expected zero cutoff by default, got %v", cutoff)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("SUPPLIER_STATE", "27")
	t.Setenv("BOOKS_CLOSED_BEFORE", "2025-04-01")
	t.Setenv("BILLING_CRON", "0 3 1 * *")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.SupplierState != "27" || cfg.BillingCron != "0 3 1 * *" {
		t.Fatalf("expected billing overrides, got state=%s cron=%s", cfg.SupplierState, cfg.BillingCron)
	}

	cutoff, err := cfg.BooksClosedCutoff()
	if err != nil {
		t.Fatalf("unexpected cutoff error: %v", err)
	}
	if want := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC); !cutoff.Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, cutoff)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadInvalidCutoffDate(t *testing.T) {
	t.Setenv("BOOKS_CLOSED_BEFORE", "01-04-2025")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for malformed books-closed date")
	}
}
