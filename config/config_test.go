package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"DATABASE_URL", "NATS_URL", "HTTP_ADDR", "ALLOWED_ORIGINS", "JWT_SECRET", "RIOT_API_KEY",
		"RIOT_MIN_INTERVAL", "RIOT_LIMITER_CAPACITY", "SYNC_ENABLED", "SYNC_INTERVAL", "CRON_SECRET",
		"METRICS_ADDRESS", "ENV", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_FromFileWithOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
postgres:
  dsn: postgres://file
nats:
  url: nats://file:4222
riot:
  api_key: RGAPI-file
  min_interval: 250ms
sync:
  enabled: true
  interval: 5m
`), 0o600)
	if err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("RIOT_API_KEY", "RGAPI-env")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Postgres.DSN != "postgres://file" {
		t.Errorf("DSN = %q", cfg.Postgres.DSN)
	}
	if cfg.Riot.APIKey != "RGAPI-env" {
		t.Errorf("APIKey = %q, env should override the file", cfg.Riot.APIKey)
	}
	if cfg.Riot.MinInterval != 250*time.Millisecond {
		t.Errorf("MinInterval = %v", cfg.Riot.MinInterval)
	}
	if !cfg.Sync.Enabled || cfg.Sync.Interval != 5*time.Minute {
		t.Errorf("Sync = %+v", cfg.Sync)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.HTTP.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.HTTP.AllowedOrigins, want)
	}

	// defaults
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Riot.LimiterCapacity != 1000 {
		t.Errorf("LimiterCapacity = %d", cfg.Riot.LimiterCapacity)
	}
	if cfg.Sync.MatchWindow != 100 {
		t.Errorf("MatchWindow = %d", cfg.Sync.MatchWindow)
	}
	if cfg.Observability.Environment != "development" {
		t.Errorf("Environment = %q", cfg.Observability.Environment)
	}
}

func TestLoadConfig_EnvFallback(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := LoadConfig(missing); err == nil {
		t.Fatal("DATABASE_URL is required without a config file")
	}

	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("NATS_URL", "nats://env:4222")
	t.Setenv("SYNC_INTERVAL", "1h")
	t.Setenv("RIOT_LIMITER_CAPACITY", "50")

	cfg, err := LoadConfig(missing)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Postgres.DSN != "postgres://env" || cfg.Sync.Interval != time.Hour || cfg.Riot.LimiterCapacity != 50 {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("NATS_URL", "nats://env:4222")
	t.Setenv("SYNC_INTERVAL", "soon")

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() should reject an invalid duration")
	}
}
