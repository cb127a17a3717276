package service

import (
	"context"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

// UserService manages accounts
type UserService struct {
	users             interfaces.UserRepository
	sessions          interfaces.SessionRepository
	minPasswordLength int
	obs               Observability
}

var _ interfaces.UserService = (*UserService)(nil)

func NewUserService(
	users interfaces.UserRepository,
	sessions interfaces.SessionRepository,
	minPasswordLength int,
	obs Observability,
) *UserService {
	return &UserService{
		users:             users,
		sessions:          sessions,
		minPasswordLength: minPasswordLength,
		obs:               obs,
	}
}

// Signup registers a customer account
func (s *UserService) Signup(ctx context.Context, in domain.SignupInput) (*domain.User, error) {
	ctx, span := s.obs.startSpan(ctx, "UserService.Signup")
	defer span.End()

	user, err := domain.NewUser(in, domain.RoleCustomer, s.minPasswordLength)
	if err != nil {
		return nil, fail(span, err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.obs.count("signups_total", "error")
		return nil, fail(span, err)
	}

	s.obs.count("signups_total", "success")
	s.obs.Logger.Info(ctx, "User signed up", map[string]interface{}{"user_id": user.ID})
	return user, nil
}

func (s *UserService) ListCustomers(ctx context.Context) ([]domain.User, error) {
	ctx, span := s.obs.startSpan(ctx, "UserService.ListCustomers")
	defer span.End()

	users, err := s.users.ListByRole(ctx, domain.RoleCustomer)
	if err != nil {
		return nil, fail(span, err)
	}
	return users, nil
}

// Delete removes the account and revokes its sessions
func (s *UserService) Delete(ctx context.Context, id string) error {
	ctx, span := s.obs.startSpan(ctx, "UserService.Delete", tracing.UserIDKey.String(id))
	defer span.End()

	if err := s.users.Delete(ctx, id); err != nil {
		return fail(span, err)
	}

	if err := s.sessions.DeleteUserSessions(ctx, id); err != nil {
		s.obs.Logger.Warn(ctx, "Failed to revoke sessions of deleted user", map[string]interface{}{
			"user_id": id,
			"error":   err.Error(),
		})
	}

	s.obs.Logger.Info(ctx, "User deleted", map[string]interface{}{"user_id": id})
	return nil
}

func (s *UserService) UpdateStatus(ctx context.Context, id string, status string) (*domain.User, error) {
	ctx, span := s.obs.startSpan(ctx, "UserService.UpdateStatus", tracing.UserIDKey.String(id))
	defer span.End()

	next, err := domain.ParseUserStatus(status)
	if err != nil {
		return nil, fail(span, err)
	}

	user, err := s.users.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, fail(span, err)
	}

	s.obs.Logger.Info(ctx, "User status updated", map[string]interface{}{
		"user_id": id,
		"status":  next,
	})
	return user, nil
}

// EnsureAdmin creates the admin account unless one with email already exists
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			s.obs.Logger.Warn(ctx, "Bootstrap admin email belongs to a non-admin account", map[string]interface{}{
				"user_id": existing.ID,
			})
		}
		return existing, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	admin, err := domain.NewUser(domain.SignupInput{Name: "Admin", Email: email, Password: password}, domain.RoleAdmin, s.minPasswordLength)
	if err != nil {
		return nil, err
	}
	admin.Status = domain.UserStatusActive

	if err := s.users.Create(ctx, admin); err != nil {
		// another instance created it first
		if errors.IsConflict(err) {
			return s.users.GetByEmail(ctx, email)
		}
		return nil, err
	}

	s.obs.Logger.Info(ctx, "Admin account created", map[string]interface{}{"user_id": admin.ID})
	return admin, nil
}
