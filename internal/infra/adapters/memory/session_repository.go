package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/qrave1/MeetPlanner/internal/domain/runtime"
)

type SessionRepository interface {
	Save(ctx context.Context, session runtime.Session)
	Get(ctx context.Context, connID uuid.UUID) (runtime.Session, bool)
	Remove(ctx context.Context, connID uuid.UUID)
}

type sessionRepository struct {
	sessions map[uuid.UUID]runtime.Session
	mu       sync.RWMutex
}

func NewSessionRepository() SessionRepository {
	return &sessionRepository{
		sessions: make(map[uuid.UUID]runtime.Session),
	}
}

func (r *sessionRepository) Save(ctx context.Context, session runtime.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ConnectionID] = session
}

func (r *sessionRepository) Get(ctx context.Context, connID uuid.UUID) (runtime.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[connID]
	return session, ok
}

func (r *sessionRepository) Remove(ctx context.Context, connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, connID)
}
