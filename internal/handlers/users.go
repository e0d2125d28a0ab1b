package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/talentbridge/api/internal/auth"
	"github.com/talentbridge/api/internal/models"
	"github.com/talentbridge/api/internal/services"
	pkghttp "github.com/talentbridge/api/pkg/http"
)

// ProfileServiceInterface defines the interface for own-profile operations
type ProfileServiceInterface interface {
	UpdateProfile(ctx context.Context, userID, name, phone, password string) (*services.UserResponse, error)
}

// UserHandler handles the authenticated user's own profile
type UserHandler struct {
	service ProfileServiceInterface
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service ProfileServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// UpdateProfileRequest represents the request body for a profile update.
// All fields are optional; absent fields are left unchanged.
type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"omitempty,min=1,max=100"`
	Phone    string `json:"phone" validate:"omitempty,min=7,max=20"`
	Password string `json:"password" validate:"omitempty,min=8,max=128"`
}

// Me returns the current user from the request context
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, services.UserModelToResponse(user))
}

// UpdateMe updates the current user's name, phone, or password
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), user.ID, req.Name, req.Phone, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrPhoneTaken):
			pkghttp.WriteConflict(w, "Phone number already in use")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteUnauthorized(w, "Invalid or expired session")
		case errors.Is(err, models.ErrInternalServer):
			pkghttp.WriteInternalError(w, "Internal server error")
		default:
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, updated)
}
