package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/talentbridge/api/internal/auth"
	"github.com/talentbridge/api/internal/models"
	"github.com/talentbridge/api/internal/services"
	pkghttp "github.com/talentbridge/api/pkg/http"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// AdminServiceInterface defines the interface for admin user management
type AdminServiceInterface interface {
	GetUserByID(ctx context.Context, id string) (*services.UserResponse, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*services.UserResponse, error)
	UpdateUser(ctx context.Context, adminID, id, name, phone string) (*services.UserResponse, error)
	DeleteUser(ctx context.Context, adminID, id string) error
	SetAdmin(ctx context.Context, actorID, id string, isAdmin bool) (*services.UserResponse, error)
}

// AdminHandler handles admin-facing user management endpoints
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// AdminUpdateUserRequest represents the request body for an admin user update
type AdminUpdateUserRequest struct {
	Name  string `json:"name" validate:"omitempty,min=1,max=100"`
	Phone string `json:"phone" validate:"omitempty,min=7,max=20"`
}

// SetAdminRequest represents the request body for granting or revoking admin
type SetAdminRequest struct {
	IsAdmin *bool `json:"is_admin" validate:"required"`
}

// ListUsers returns a page of users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", defaultPageLimit)
	offset := parseQueryInt(r, "offset", 0)

	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, err := h.service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}

// GetUser returns a single user by ID
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// UpdateUser updates another user's name or phone
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetUserFromContext(r)
	if actor == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")

	var req AdminUpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.UpdateUser(r.Context(), actor.ID, id, req.Name, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		case errors.Is(err, models.ErrPhoneTaken):
			pkghttp.WriteConflict(w, "Phone number already in use")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// DeleteUser deletes a user
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetUserFromContext(r)
	if actor == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.DeleteUser(r.Context(), actor.ID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetAdmin grants or revokes another user's admin flag
func (h *AdminHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetUserFromContext(r)
	if actor == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")

	var req SetAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.SetAdmin(r.Context(), actor.ID, id, *req.IsAdmin)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// parseQueryInt reads an integer query parameter, falling back on bad input
func parseQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}
