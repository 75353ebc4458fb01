package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "CACHE_TTL", "CATALOG_LIMIT", "RATE_LIMIT_PER_MINUTE", "SCORING_POLICY_FILE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.Addr())
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("expected 10m cache TTL, got %s", cfg.CacheTTL)
	}
	if cfg.CatalogLimit != 100 {
		t.Errorf("expected catalog limit 100, got %d", cfg.CatalogLimit)
	}
	if cfg.ScoringPolicyFile != "" {
		t.Errorf("expected no policy file, got %q", cfg.ScoringPolicyFile)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("BATCH_CONCURRENCY", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.CacheTTL)
	}
	if cfg.BatchConcurrency != 8 {
		t.Errorf("unparsable value should fall back to default, got %d", cfg.BatchConcurrency)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"PORT":                  "70000",
		"CATALOG_LIMIT":         "0",
		"RATE_LIMIT_PER_MINUTE": "-5",
		"REQUEST_TIMEOUT":       "-1s",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", key, value)
			}
		})
	}
}
