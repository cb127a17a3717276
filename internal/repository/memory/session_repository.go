// Package memory holds process-local repositories used when Redis is disabled.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
)

// SessionRepository keeps sessions in a map; expired entries are dropped on read
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	now      func() time.Time
}

var _ interfaces.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]domain.Session),
		now:      time.Now,
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if !session.ExpiresAt.After(r.now()) {
		return errors.NewValidation("session already expired")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	if !ok || !session.ExpiresAt.After(r.now()) {
		if ok {
			r.mu.Lock()
			delete(r.sessions, sessionID)
			r.mu.Unlock()
		}
		return nil, errors.NewNotFound("session not found")
	}
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return errors.NewNotFound("session not found")
	}
	delete(r.sessions, sessionID)
	return nil
}

func (r *SessionRepository) DeleteUserSessions(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}
