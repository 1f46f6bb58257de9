package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/weighbuddy/weighbuddy-backend/internal/domain/weigh"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/logger"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore holds in-flight weigh session snapshots. Sessions live
// here until they are finalized and archived as submissions; abandoned
// sessions expire with the TTL.
type SessionStore interface {
	Put(ctx context.Context, s weigh.Session) error
	Get(ctx context.Context, id uuid.UUID) (weigh.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}

type sessionStore struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewSessionStore(log *logger.Logger, ttl time.Duration) (SessionStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &sessionStore{
		log:    log.With("service", "RedisSessionStore"),
		rdb:    rdb,
		prefix: "weigh:session:",
		ttl:    ttl,
	}, nil
}

func (s *sessionStore) key(id uuid.UUID) string {
	return s.prefix + id.String()
}

func (s *sessionStore) Put(ctx context.Context, sess weigh.Session) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("session store not initialized")
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(sess.ID), raw, s.ttl).Err()
}

func (s *sessionStore) Get(ctx context.Context, id uuid.UUID) (weigh.Session, error) {
	if s == nil || s.rdb == nil {
		return weigh.Session{}, fmt.Errorf("session store not initialized")
	}
	raw, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return weigh.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return weigh.Session{}, err
	}
	var sess weigh.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return weigh.Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return sess, nil
}

func (s *sessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("session store not initialized")
	}
	return s.rdb.Del(ctx, s.key(id)).Err()
}

func (s *sessionStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
