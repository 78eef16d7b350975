package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("Env = %s, want development", cfg.Env)
	}
	if cfg.SlotCacheTTL != 30*time.Second {
		t.Fatalf("SlotCacheTTL = %s, want 30s", cfg.SlotCacheTTL)
	}
	if cfg.EmailProvider != "" {
		t.Fatalf("EmailProvider should default to disabled")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("SLOT_CACHE_TTL", "2m")
	t.Setenv("EMAIL_PROVIDER", " SendGrid ")
	t.Setenv("NOTIFY_RECIPIENTS", "ops@clinic.test, , desk@clinic.test")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Fatalf("Port = %s, want 9000", cfg.Port)
	}
	if !cfg.RedisTLS {
		t.Fatalf("RedisTLS should parse true")
	}
	if cfg.SlotCacheTTL != 2*time.Minute {
		t.Fatalf("SlotCacheTTL = %s, want 2m", cfg.SlotCacheTTL)
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Fatalf("EmailProvider = %q, want sendgrid", cfg.EmailProvider)
	}
	if len(cfg.NotifyRecipients) != 2 {
		t.Fatalf("NotifyRecipients = %v, want 2 entries", cfg.NotifyRecipients)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_TLS", "not-a-bool")
	t.Setenv("SLOT_CACHE_TTL", "soon")

	cfg := Load()

	if cfg.RedisTLS {
		t.Fatalf("invalid bool should fall back to default")
	}
	if cfg.SlotCacheTTL != 30*time.Second {
		t.Fatalf("invalid duration should fall back to default")
	}
}
