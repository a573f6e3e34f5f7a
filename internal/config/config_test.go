package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "REDIS_ADDR", "CONTACT_ENDPOINT", "DEMO_VERTICAL", "DEMO_CONFIRM_DELAY", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("expected redis disabled by default, got %s", cfg.RedisAddr)
	}
	if cfg.DemoVertical != "nails" {
		t.Fatalf("expected default vertical, got %s", cfg.DemoVertical)
	}
	if cfg.DemoConfirmDelay != 250*time.Millisecond {
		t.Fatalf("expected default confirm delay, got %s", cfg.DemoConfirmDelay)
	}
	if cfg.DemoVisibilityThreshold != 0.1 {
		t.Fatalf("expected default visibility threshold, got %v", cfg.DemoVisibilityThreshold)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://mozbe.ai, ,https://www.mozbe.ai")
	t.Setenv("CONTACT_ENDPOINT", "https://formspree.io/f/abc")
	t.Setenv("CONTACT_TIMEOUT", "3s")
	t.Setenv("DEMO_VERTICAL", " MedSpa ")
	t.Setenv("DEMO_CONFIRM_DELAY", "300ms")
	t.Setenv("DEMO_USER_DELAY", "400ms")
	t.Setenv("DEMO_VISIBILITY_THRESHOLD", "0.25")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://www.mozbe.ai" {
		t.Fatalf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.ContactEndpoint != "https://formspree.io/f/abc" {
		t.Fatalf("expected contact endpoint override, got %s", cfg.ContactEndpoint)
	}
	if cfg.ContactTimeout != 3*time.Second {
		t.Fatalf("expected contact timeout override, got %s", cfg.ContactTimeout)
	}
	if cfg.DemoVertical != "medspa" {
		t.Fatalf("expected normalized vertical, got %q", cfg.DemoVertical)
	}
	if cfg.DemoConfirmDelay != 300*time.Millisecond || cfg.DemoUserDelay != 400*time.Millisecond {
		t.Fatalf("expected delay overrides, got %s / %s", cfg.DemoConfirmDelay, cfg.DemoUserDelay)
	}
	if cfg.DemoVisibilityThreshold != 0.25 {
		t.Fatalf("expected threshold override, got %v", cfg.DemoVisibilityThreshold)
	}
	if cfg.RateLimitBurst != 20 {
		t.Fatalf("expected invalid burst to fall back to default, got %d", cfg.RateLimitBurst)
	}
}
