package config

import (
	"context"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.Server.Addr(); got != ":8080" {
		t.Errorf("expected :8080, got %q", got)
	}
	if cfg.Auth.Required {
		t.Error("expected auth off by default")
	}
	if cfg.RateLimit.PerSecond != 5 || cfg.RateLimit.Burst != 10 {
		t.Errorf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("ADMIN_TOKEN", "s3cret")
	t.Setenv("NOTIFY_URL", "https://notify.example.org")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.Server.Addr(); got != "127.0.0.1:9090" {
		t.Errorf("expected 127.0.0.1:9090, got %q", got)
	}
	if !cfg.Auth.Required || cfg.Auth.AdminToken != "s3cret" {
		t.Errorf("unexpected auth config: %+v", cfg.Auth)
	}
	if cfg.Notify.URL != "https://notify.example.org" {
		t.Errorf("unexpected notify config: %+v", cfg.Notify)
	}
}
