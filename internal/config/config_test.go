package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("RECAPTCHA_SECRET", "")
	t.Setenv("NOTIFY_MISCONFIG_POLICY", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.CORSOrigins != "*" {
		t.Fatalf("expected default cors origins, got %s", cfg.CORSOrigins)
	}
	if cfg.RecaptchaSecret != "" {
		t.Fatalf("expected recaptcha disabled by default, got %s", cfg.RecaptchaSecret)
	}
	if cfg.RecaptchaThreshold != 0.3 {
		t.Fatalf("expected default score threshold, got %f", cfg.RecaptchaThreshold)
	}
	if cfg.RecaptchaTimeout != 10*time.Second {
		t.Fatalf("expected default recaptcha timeout, got %s", cfg.RecaptchaTimeout)
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Fatalf("expected default email provider, got %s", cfg.EmailProvider)
	}
	if cfg.NotifyMisconfigPolicy != "skip" {
		t.Fatalf("expected default misconfig policy, got %s", cfg.NotifyMisconfigPolicy)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://karba.dev, https://www.karba.dev")
	t.Setenv("RECAPTCHA_SECRET", "secret-123")
	t.Setenv("RECAPTCHA_SCORE_THRESHOLD", "0.5")
	t.Setenv("RECAPTCHA_TIMEOUT", "3s")
	t.Setenv("EMAIL_PROVIDER", "SES")
	t.Setenv("EMAIL_TO", "owner@karba.dev")
	t.Setenv("NOTIFY_MISCONFIG_POLICY", "FAIL")
	t.Setenv("RATE_LIMIT_PER_SECOND", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.RecaptchaSecret != "secret-123" {
		t.Fatalf("expected secret override, got %s", cfg.RecaptchaSecret)
	}
	if cfg.RecaptchaThreshold != 0.5 {
		t.Fatalf("expected threshold override, got %f", cfg.RecaptchaThreshold)
	}
	if cfg.RecaptchaTimeout != 3*time.Second {
		t.Fatalf("expected timeout override, got %s", cfg.RecaptchaTimeout)
	}
	if cfg.EmailProvider != "ses" {
		t.Fatalf("expected provider lowercased, got %s", cfg.EmailProvider)
	}
	if cfg.NotifyMisconfigPolicy != "fail" {
		t.Fatalf("expected misconfig policy lowercased, got %s", cfg.NotifyMisconfigPolicy)
	}
	if cfg.RateLimitPerSecond != 2.5 {
		t.Fatalf("expected rate override, got %f", cfg.RateLimitPerSecond)
	}
	if cfg.RateLimitBurst != 4 {
		t.Fatalf("expected burst override, got %d", cfg.RateLimitBurst)
	}

	origins := cfg.AllowedOrigins()
	if len(origins) != 2 || origins[0] != "https://karba.dev" || origins[1] != "https://www.karba.dev" {
		t.Fatalf("expected trimmed origin list, got %v", origins)
	}
}

func TestAllowedOriginsWildcard(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "*")
	cfg := Load()
	origins := cfg.AllowedOrigins()
	if len(origins) != 1 || origins[0] != "*" {
		t.Fatalf("expected wildcard entry, got %v", origins)
	}
}
