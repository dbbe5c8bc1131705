package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "5175" {
		t.Fatalf("expected default port 5175, got %q", cfg.Port)
	}
	if cfg.IdleTimeout != 2*time.Hour || cfg.JWTExpiresDays != 14 {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.Production() {
		t.Fatal("default env should not be production")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("SWEEP_INTERVAL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" || !cfg.Production() || cfg.SweepInterval != 30*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadError(t *testing.T) {
	t.Setenv("JWT_EXPIRES_DAYS", "fortnight")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
