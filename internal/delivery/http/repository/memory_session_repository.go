package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/fluenta/tutor-be/internal/delivery/http/entity"
)

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemorySessionRepository returns an in-memory session store for tests and
// local development. It guards the map but does not serialize writers per
// session, so it must not back a production deployment; bootstrap enforces
// that restriction.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string][]byte),
	}
}

func (r *memorySessionRepository) Save(_ context.Context, session *entity.Session) error {
	// Sessions are stored serialized so callers never share state with the
	// store's copy.
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = raw
	return nil
}

func (r *memorySessionRepository) Load(_ context.Context, id string) (*entity.Session, error) {
	r.mu.RLock()
	raw, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var session entity.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *memorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}
