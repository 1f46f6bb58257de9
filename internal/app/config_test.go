package app

import (
	"testing"
	"time"
)

func TestLoadConfigSessionTTL(t *testing.T) {
	t.Setenv("SESSION_TTL", "")
	cfg := LoadConfig()
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("default session ttl: %v", cfg.SessionTTL)
	}

	t.Setenv("SESSION_TTL", "90m")
	cfg = LoadConfig()
	if cfg.SessionTTL != 90*time.Minute {
		t.Fatalf("session ttl: got %v want 90m", cfg.SessionTTL)
	}
}
