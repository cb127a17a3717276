package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserHandler handles account and authentication requests
type UserHandler struct {
	responder
	users interfaces.UserService
	auth  interfaces.AuthService
}

func NewUserHandler(users interfaces.UserService, auth interfaces.AuthService, logger logging.Logger) *UserHandler {
	return &UserHandler{responder: responder{logger: logger}, users: users, auth: auth}
}

// Signup handles POST /api/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.SignupInput
	if err := decodeJSON(r, &req); err != nil {
		h.handleServiceError(ctx, w, err, "Signup failed")
		return
	}

	user, err := h.users.Signup(ctx, req)
	if err != nil {
		h.handleServiceError(ctx, w, err, "Signup failed")
		return
	}

	h.respondOK(ctx, w, http.StatusCreated, "User registered successfully", user)
}

// Login handles POST /api/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleServiceError(ctx, w, err, "Login failed")
		return
	}

	result, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.handleServiceError(ctx, w, err, "Login failed")
		return
	}

	h.respondOK(ctx, w, http.StatusOK, "Login successful", result)
}

// Logout handles POST /api/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := BearerToken(r)
	if !ok {
		h.handleServiceError(ctx, w, errors.NewUnauthorized("Missing bearer token"), "Logout failed")
		return
	}

	if err := h.auth.Logout(ctx, token); err != nil {
		h.handleServiceError(ctx, w, err, "Logout failed")
		return
	}

	h.respondOK(ctx, w, http.StatusOK, "Logout successful", nil)
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.users.ListCustomers(ctx)
	if err != nil {
		h.handleServiceError(ctx, w, err, "Failed to retrieve users")
		return
	}

	h.respondOK(ctx, w, http.StatusOK, "Users retrieved successfully", users)
}

// DeleteUser handles DELETE /api/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	tracing.AddSpanAttributes(ctx, tracing.UserIDKey.String(id))

	if err := h.users.Delete(ctx, id); err != nil {
		h.handleServiceError(ctx, w, err, "Failed to delete user")
		return
	}

	h.respondOK(ctx, w, http.StatusOK, "User deleted successfully", nil)
}

// UpdateUserStatus handles PATCH /api/users/{id}/status
func (h *UserHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	tracing.AddSpanAttributes(ctx, tracing.UserIDKey.String(id))

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleServiceError(ctx, w, err, "Failed to update status")
		return
	}

	user, err := h.users.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		h.handleServiceError(ctx, w, err, "Failed to update status")
		return
	}

	h.respondOK(ctx, w, http.StatusOK, "Status updated successfully", user)
}

// BearerToken extracts the token of an "Authorization: Bearer" header
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
