package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppName != "roliwatch" || cfg.StorageType != "bbolt" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.PollInterval != time.Minute {
		t.Fatalf("expected 1m poll interval, got %s", cfg.PollInterval)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.StorageTTL != 48*time.Hour || cfg.StorageCleanupInterval != 6*time.Hour {
		t.Fatalf("unexpected storage durations %s %s", cfg.StorageTTL, cfg.StorageCleanupInterval)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "5")
	t.Setenv("STORAGE_TYPE", " Redis ")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ROLI_VERIFICATION", "abc")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("expected 5s, got %s", cfg.PollInterval)
	}
	if cfg.StorageType != "redis" || cfg.RedisDB != 3 || cfg.RoliVerification != "abc" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"POLL_INTERVAL":       "0",
		"REQUEST_TIMEOUT":     "-1",
		"STORAGE_TTL_SECONDS": "0",
		"STORAGE_TYPE":        "memcached",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := load(viper.New()); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}
