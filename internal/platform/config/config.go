package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything main needs to wire the service. Values come
// from SANAD_* environment variables with development defaults, so a bare
// `go run ./cmd/sanad` starts an in-memory instance.
type Config struct {
	Addr string

	// DatabaseURL selects the postgres record store. Empty means the
	// in-memory store, which loses data on restart.
	DatabaseURL string

	// RedisURL selects the redis session store. Empty means in-memory
	// sessions.
	RedisURL string

	RootUser string
	RootPass string

	LogLevel string

	SessionTTL           time.Duration
	BroadcastConcurrency int
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:                 getenv("SANAD_ADDR", ":8080"),
		DatabaseURL:          os.Getenv("SANAD_DATABASE_URL"),
		RedisURL:             os.Getenv("SANAD_REDIS_URL"),
		RootUser:             getenv("SANAD_ROOT_USER", "admin"),
		RootPass:             getenv("SANAD_ROOT_PASS", "admin"),
		LogLevel:             getenv("SANAD_LOG_LEVEL", "info"),
		SessionTTL:           30 * 24 * time.Hour,
		BroadcastConcurrency: 8,
	}

	if raw := os.Getenv("SANAD_SESSION_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}
	if raw := os.Getenv("SANAD_BROADCAST_CONCURRENCY"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.BroadcastConcurrency = n
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
