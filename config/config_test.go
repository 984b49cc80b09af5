package config

import (
	"reflect"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.ListenAddr != ":8000" {
		t.Errorf("ListenAddr = %q, want :8000", cfg.ListenAddr)
	}
	if cfg.PrefetchLimit != 100 {
		t.Errorf("PrefetchLimit = %d, want 100", cfg.PrefetchLimit)
	}
	if cfg.PrefetchInterval != "1d" {
		t.Errorf("PrefetchInterval = %q, want 1d", cfg.PrefetchInterval)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty (cache disabled)", cfg.RedisAddr)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("PREFETCH_LIMIT", "250")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := Load()

	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.ListenAddr)
	}
	if cfg.PrefetchLimit != 250 {
		t.Errorf("PrefetchLimit = %d, want 250", cfg.PrefetchLimit)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q, want localhost:6379", cfg.RedisAddr)
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("PREFETCH_LIMIT", "not-a-number")
	if cfg := Load(); cfg.PrefetchLimit != 100 {
		t.Errorf("PrefetchLimit = %d, want fallback 100", cfg.PrefetchLimit)
	}

	t.Setenv("PREFETCH_LIMIT", "-5")
	if cfg := Load(); cfg.PrefetchLimit != 100 {
		t.Errorf("PrefetchLimit = %d, want fallback 100 for non-positive", cfg.PrefetchLimit)
	}
}

func TestParseSymbols(t *testing.T) {
	cfg := &Config{PrefetchSymbols: " btcusdt, ETHUSDT ,,solusdt "}
	got := cfg.ParseSymbols()
	want := []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseSymbols = %v, want %v", got, want)
	}
}
