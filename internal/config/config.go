package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port             int
	DatabaseURL      string
	NatsURL          string
	NatsToken        string
	LogLevel         string
	APIToken         string
	PublicCacheTTL   int // seconds
	PublicRatePerSec float64
	PublicRateBurst  int
}

func Load() Config {
	return Config{
		Port:             envInt("VOUCH_PORT", 8640),
		DatabaseURL:      envStr("DATABASE_URL", ""),
		NatsURL:          envStr("NATS_URL", "nats://nats:4222"),
		NatsToken:        envStr("NATS_TOKEN", ""),
		LogLevel:         envStr("LOG_LEVEL", "info"),
		APIToken:         envStr("VOUCH_API_TOKEN", ""),
		PublicCacheTTL:   envInt("PUBLIC_CACHE_TTL_SECONDS", 60),
		PublicRatePerSec: envFloat("PUBLIC_RATE_PER_SEC", 5),
		PublicRateBurst:  envInt("PUBLIC_RATE_BURST", 10),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
