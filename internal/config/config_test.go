package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "SQLITE_PATH", "GEMINI_MODEL", "QUOTE_DELAY", "QUOTE_NAME_DELAY", "REQUEST_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("expected sqlite driver, got %s", cfg.DBDriver)
	}
	if cfg.SQLitePath != "budget-tracker.db" {
		t.Errorf("expected default sqlite path, got %s", cfg.SQLitePath)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("expected default model, got %s", cfg.GeminiModel)
	}
	if cfg.QuoteDelay != 5*time.Second {
		t.Errorf("expected 5s quote delay, got %s", cfg.QuoteDelay)
	}
	if cfg.QuoteNameDelay != time.Second {
		t.Errorf("expected 1s name delay, got %s", cfg.QuoteNameDelay)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.RequestTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("QUOTE_DELAY", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("expected postgres driver, got %s", cfg.DBDriver)
	}
	if cfg.QuoteDelay != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", cfg.QuoteDelay)
	}
	if Get() != cfg {
		t.Error("Get should return the last loaded config")
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("QUOTE_DELAY", "soon")

	cfg, _ := Load()
	if cfg.QuoteDelay != 5*time.Second {
		t.Errorf("expected fallback to 5s, got %s", cfg.QuoteDelay)
	}
}
