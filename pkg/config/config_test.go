package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", c.Server.Port)
	}
	if c.Market.CacheTTL != 120*time.Second {
		t.Errorf("expected default cache_ttl 120s, got %v", c.Market.CacheTTL)
	}
	if c.Market.LookbackDays != 60 {
		t.Errorf("expected default lookback_days 60, got %d", c.Market.LookbackDays)
	}
	if c.Yahoo.Suffix != ".NS" {
		t.Errorf("expected default suffix .NS, got %q", c.Yahoo.Suffix)
	}
}

func TestLoadRejectsShortLookback(t *testing.T) {
	path := writeConfig(t, "environment: test\nmarket:\n  lookback_days: 5\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for lookback_days=5")
	}
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	path := writeConfig(t, "environment: test\nkafka:\n  enabled: true\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for kafka without brokers")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	t.Setenv("SYMBOLS", "RELIANCE,TCS")
	t.Setenv("CACHE_TTL", "45s")

	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Market.Symbols) != 2 || c.Market.Symbols[0] != "RELIANCE" {
		t.Errorf("unexpected symbols %v", c.Market.Symbols)
	}
	if c.Market.CacheTTL != 45*time.Second {
		t.Errorf("expected cache_ttl 45s, got %v", c.Market.CacheTTL)
	}
}
