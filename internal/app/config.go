package app

import (
	"time"

	"github.com/weighbuddy/weighbuddy-backend/internal/platform/envutil"
)

type Config struct {
	Port       string
	SeedPath   string
	RedisAddr  string
	SessionTTL time.Duration
}

func LoadConfig() Config {
	return Config{
		Port:       envutil.Str("PORT", "8080"),
		SeedPath:   envutil.Str("SEED_PATH", ""),
		RedisAddr:  envutil.Str("REDIS_ADDR", ""),
		SessionTTL: envutil.Duration("SESSION_TTL", 24*time.Hour),
	}
}
