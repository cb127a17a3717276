package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
)

// UserRole represents user roles in the system
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
)

// UserStatus represents user status
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// ParseUserStatus accepts only active and inactive
func ParseUserStatus(s string) (UserStatus, error) {
	switch status := UserStatus(s); status {
	case UserStatusActive, UserStatusInactive:
		return status, nil
	default:
		return "", errors.NewValidation("Invalid status value")
	}
}

// User is an admin or a customer account
type User struct {
	ID           string     `json:"_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	Status       UserStatus `json:"status"`
	JoinDate     time.Time  `json:"joinDate"`
}

// SignupInput carries the fields of a new account
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser validates input and creates an inactive account with a hashed password
func NewUser(in SignupInput, role UserRole, minPasswordLength int) (*User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.NewValidation("Name is required")
	}

	email := NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, errors.NewValidation("Invalid email format")
	}

	if len(in.Password) < minPasswordLength {
		return nil, errors.NewValidation(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	if role != RoleAdmin && role != RoleCustomer {
		return nil, errors.NewValidation("Invalid user role")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       UserStatusInactive,
		JoinDate:     time.Now().UTC(),
	}, nil
}

// CheckPassword reports whether password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
