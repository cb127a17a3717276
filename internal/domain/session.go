package domain

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
)

const tokenIssuer = "restaurant-admin"

// Session is a logged-in user's server-side state
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Role        UserRole  `json:"role"`
	AccessToken string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// JWTClaims are the claims carried by an access token
type JWTClaims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// NewSession creates a session for user that expires after ttl
func NewSession(user *User, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session is past its expiry
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// TTL returns the remaining lifetime, never negative
func (s *Session) TTL() time.Duration {
	if remaining := time.Until(s.ExpiresAt); remaining > 0 {
		return remaining
	}
	return 0
}

// GenerateToken signs an HS256 access token bound to the session
func (s *Session) GenerateToken(secretKey string) error {
	claims := &JWTClaims{
		UserID:    s.UserID,
		SessionID: s.ID,
		Role:      string(s.Role),
		Email:     s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			NotBefore: jwt.NewNumericDate(s.CreatedAt),
			Issuer:    tokenIssuer,
			Subject:   s.UserID,
			ID:        s.ID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	if err != nil {
		return fmt.Errorf("failed to generate access token: %w", err)
	}
	s.AccessToken = token
	return nil
}

// ValidateJWTToken parses and verifies an access token
func ValidateJWTToken(tokenString, secretKey string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.WrapAs(err, errors.ErrorTypeUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, errors.NewUnauthorized("invalid token claims")
	}
	return claims, nil
}
