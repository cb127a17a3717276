package service

import (
	"context"
	"time"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

const invalidCredentials = "Invalid email or password"

// AuthService issues and revokes login sessions
type AuthService struct {
	users      interfaces.UserRepository
	sessions   interfaces.SessionRepository
	jwtSecret  string
	sessionTTL time.Duration
	obs        Observability
}

var _ interfaces.AuthService = (*AuthService)(nil)

func NewAuthService(
	users interfaces.UserRepository,
	sessions interfaces.SessionRepository,
	jwtSecret string,
	sessionTTL time.Duration,
	obs Observability,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		obs:        obs,
	}
}

// Login checks credentials, marks the user active and opens a session
func (s *AuthService) Login(ctx context.Context, email, password string) (*interfaces.LoginResult, error) {
	ctx, span := s.obs.startSpan(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			s.obs.count("logins_total", "invalid_credentials")
			return nil, fail(span, errors.NewUnauthorized(invalidCredentials))
		}
		return nil, fail(span, err)
	}
	if !user.CheckPassword(password) {
		s.obs.count("logins_total", "invalid_credentials")
		return nil, fail(span, errors.NewUnauthorized(invalidCredentials))
	}
	span.SetAttributes(tracing.UserIDKey.String(user.ID))

	if user.Status != domain.UserStatusActive {
		active, err := s.users.UpdateStatus(ctx, user.ID, domain.UserStatusActive)
		if err != nil {
			return nil, fail(span, err)
		}
		user = active
	}

	session := domain.NewSession(user, s.sessionTTL)
	if err := session.GenerateToken(s.jwtSecret); err != nil {
		return nil, fail(span, errors.Wrap(err, "failed to generate access token"))
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fail(span, err)
	}

	s.obs.count("logins_total", "success")
	s.obs.Logger.Info(ctx, "User logged in", map[string]interface{}{
		"user_id":    user.ID,
		"session_id": session.ID,
		"role":       user.Role,
	})

	return &interfaces.LoginResult{
		User:        user,
		Session:     session,
		AccessToken: session.AccessToken,
	}, nil
}

// Logout revokes the session behind token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	ctx, span := s.obs.startSpan(ctx, "AuthService.Logout")
	defer span.End()

	claims, err := domain.ValidateJWTToken(token, s.jwtSecret)
	if err != nil {
		return fail(span, err)
	}

	if err := s.sessions.Delete(ctx, claims.SessionID); err != nil && !errors.IsNotFound(err) {
		return fail(span, err)
	}

	s.obs.Logger.Info(ctx, "User logged out", map[string]interface{}{
		"user_id":    claims.UserID,
		"session_id": claims.SessionID,
	})
	return nil
}

// ValidateToken accepts a token only while its session is still stored
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*domain.JWTClaims, error) {
	claims, err := domain.ValidateJWTToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewUnauthorized("session expired or revoked")
		}
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, errors.NewUnauthorized("session does not match token")
	}
	return claims, nil
}
