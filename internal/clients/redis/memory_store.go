package redis

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/weighbuddy/weighbuddy-backend/internal/domain/weigh"
)

// memorySessionStore backs tests and single-node dev runs where no
// Redis is available. Apply always returns a fresh snapshot, so the
// stored value is never mutated through aliasing.
type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]weigh.Session
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: map[uuid.UUID]weigh.Session{}}
}

func (m *memorySessionStore) Put(ctx context.Context, s weigh.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memorySessionStore) Get(ctx context.Context, id uuid.UUID) (weigh.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return weigh.Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (m *memorySessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memorySessionStore) Close() error { return nil }
