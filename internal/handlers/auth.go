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

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, name, email, phone, password string) (*services.UserResponse, error)
	Login(ctx context.Context, email, password string) (string, *services.UserResponse, error)
	IssueSession(userID string) (string, error)
}

// VerificationServiceInterface defines the interface for the code lifecycle
type VerificationServiceInterface interface {
	RequestCode(ctx context.Context, email, purpose string) error
	RedeemCode(ctx context.Context, email, code string) (*models.User, error)
	ResetPassword(ctx context.Context, email, code, newPassword string) (*models.User, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service             AuthServiceInterface
	verificationService VerificationServiceInterface
	cookieConfig        auth.CookieConfig
	sessionMaxAge       int
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, verificationService VerificationServiceInterface, cookieConfig auth.CookieConfig, sessionMaxAge int) *AuthHandler {
	return &AuthHandler{
		service:             service,
		verificationService: verificationService,
		cookieConfig:        cookieConfig,
		sessionMaxAge:       sessionMaxAge,
	}
}

// Request DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RequestCodeRequest represents the request body for requesting a code
type RequestCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RedeemCodeRequest represents the request body for redeeming a code
type RedeemCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// ResetPasswordRequest represents the request body for completing a password reset
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// Register handles user registration. New accounts start unverified; the
// client requests a verification code as a separate step.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.Register(r.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmailTaken):
			pkghttp.WriteConflict(w, "Email already in use")
		case errors.Is(err, models.ErrPhoneTaken):
			pkghttp.WriteConflict(w, "Phone number already in use")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Invalid request body")
		case errors.Is(err, models.ErrInternalServer):
			pkghttp.WriteInternalError(w, "Internal server error")
		default:
			// Password validation errors carry their own message
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, user)
}

// Login authenticates a user and sets the session cookie. Unknown email and
// wrong password are reported distinctly.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid password")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	auth.SetSessionCookie(w, token, h.sessionMaxAge, h.cookieConfig)
	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// Logout clears the session cookie. The token itself stays valid until
// expiry; there is no server-side denylist.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookieConfig)
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// RequestVerifyCode issues an account-verification code and emails it
func (h *AuthHandler) RequestVerifyCode(w http.ResponseWriter, r *http.Request) {
	h.requestCode(w, r, models.CodePurposeVerifyAccount)
}

// RequestPasswordResetCode issues a password-reset code and emails it
func (h *AuthHandler) RequestPasswordResetCode(w http.ResponseWriter, r *http.Request) {
	h.requestCode(w, r, models.CodePurposePasswordReset)
}

func (h *AuthHandler) requestCode(w http.ResponseWriter, r *http.Request, purpose string) {
	var req RequestCodeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.verificationService.RequestCode(r.Context(), req.Email, purpose); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Verification code sent"})
}

// VerifyEmail redeems an account-verification code. On success the account is
// marked verified and a session cookie is set, so the client lands logged in.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req RedeemCodeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.verificationService.RedeemCode(r.Context(), req.Email, req.Code)
	if err != nil {
		h.writeRedeemError(w, err)
		return
	}

	h.finishRedeem(w, user)
}

// VerifyPasswordReset redeems a password-reset code and replaces the password
// in one step, then sets a session cookie.
func (h *AuthHandler) VerifyPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.verificationService.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "Invalid request body")
			return
		}
		h.writeRedeemError(w, err)
		return
	}

	h.finishRedeem(w, user)
}

// writeRedeemError maps code-redemption failures. Missing, expired, and
// wrong codes all read as invalid; only an unknown email reads as not found.
func (h *AuthHandler) writeRedeemError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "User not found")
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "Invalid verification code")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

func (h *AuthHandler) finishRedeem(w http.ResponseWriter, user *models.User) {
	token, err := h.service.IssueSession(user.ID)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	auth.SetSessionCookie(w, token, h.sessionMaxAge, h.cookieConfig)
	pkghttp.WriteJSON(w, http.StatusOK, services.UserModelToResponse(user))
}
