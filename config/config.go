// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Binance credentials. Public kline endpoints work with empty keys.
	BinanceAPIKey    string
	BinanceAPISecret string

	// Infrastructure
	ListenAddr    string
	RedisAddr     string // empty disables the Redis kline cache
	RedisPassword string
	SQLitePath    string

	// Market-data prefetch for the dashboard endpoint
	PrefetchSymbols  string // comma-separated, e.g. "BTCUSDT,ETHUSDT"
	PrefetchInterval string
	PrefetchLimit    int
	CacheTTLSeconds  int

	// Trade alerts. Empty falls back to log-only notifications.
	WebhookURL string
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is honored when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env not loaded: %v", err)
	}

	return &Config{
		BinanceAPIKey:    getEnv("BINANCE_API_KEY", ""),
		BinanceAPISecret: getEnv("BINANCE_API_SECRET", ""),

		ListenAddr:    getEnv("LISTEN_ADDR", ":8000"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "data/klines.db"),

		PrefetchSymbols:  getEnv("PREFETCH_SYMBOLS", "BTCUSDT,ETHUSDT,SOLUSDT,AVAXUSDT"),
		PrefetchInterval: getEnv("PREFETCH_INTERVAL", "1d"),
		PrefetchLimit:    getEnvInt("PREFETCH_LIMIT", 100),
		CacheTTLSeconds:  getEnvInt("CACHE_TTL_SECONDS", 30),

		WebhookURL: getEnv("WEBHOOK_URL", ""),
	}
}

// ParseSymbols splits the prefetch symbol list.
func (c *Config) ParseSymbols() []string {
	parts := strings.Split(c.PrefetchSymbols, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			symbols = append(symbols, p)
		}
	}
	return symbols
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[config] ignoring invalid %s=%q", key, v)
		return fallback
	}
	return n
}
