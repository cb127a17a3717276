package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
)

const (
	sessionKeyPrefix      = "admin:session:"
	userSessionsKeyPrefix = "admin:user_sessions:"
)

// SessionRepository keeps sessions as JSON values that expire with the session
type SessionRepository struct {
	client redis.UniversalClient
}

var _ interfaces.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a Redis session repository
func NewSessionRepository(client redis.UniversalClient) *SessionRepository {
	return &SessionRepository{client: client}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func userSessionsKey(userID string) string {
	return userSessionsKeyPrefix + userID
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	ttl := session.TTL()
	if ttl <= 0 {
		return errors.NewValidation("session already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "failed to marshal session")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.ID)
	pipe.Expire(ctx, userSessionsKey(session.UserID), ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WrapAs(err, errors.ErrorTypeExternal, "failed to create session")
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.NewNotFound("session not found")
		}
		return nil, errors.WrapAs(err, errors.ErrorTypeExternal, "failed to get session")
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal session")
	}
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	session, err := r.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, userSessionsKey(session.UserID), sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WrapAs(err, errors.ErrorTypeExternal, "failed to delete session")
	}
	return nil
}

func (r *SessionRepository) DeleteUserSessions(ctx context.Context, userID string) error {
	ids, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return errors.WrapAs(err, errors.ErrorTypeExternal, "failed to list user sessions")
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userSessionsKey(userID))

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return errors.WrapAs(err, errors.ErrorTypeExternal, fmt.Sprintf("failed to delete sessions of user %s", userID))
	}
	return nil
}
