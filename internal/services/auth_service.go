package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/talentbridge/api/internal/auth"
	"github.com/talentbridge/api/internal/models"
	pkgauth "github.com/talentbridge/api/pkg/auth"
	pkglogger "github.com/talentbridge/api/pkg/logger"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDPublic(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// AuthService handles authentication business logic
type AuthService struct {
	repo        UserRepository
	tm          *auth.TokenManager
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(repo UserRepository, tm *auth.TokenManager, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AuthService {
	return &AuthService{
		repo:        repo,
		tm:          tm,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// UserResponse represents a user in the HTTP response
type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	IsAdmin    bool   `json:"is_admin"`
	SuperAdmin bool   `json:"super_admin"`
	IsVerified bool   `json:"is_verified"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// Register creates a new, unverified user account. Email and phone conflicts
// surface as distinct errors so the client can tell the user which field to
// change.
func (s *AuthService) Register(ctx context.Context, name, email, phone, password string) (*UserResponse, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	if name == "" || email == "" || phone == "" {
		return nil, models.ErrBadRequest
	}

	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, err
	}

	hashedPassword, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hashedPassword,
	}

	createdUser, err := s.repo.Create(ctx, user)
	if err != nil {
		// Unique violations arrive pre-mapped by constraint name
		if errors.Is(err, models.ErrEmailTaken) || errors.Is(err, models.ErrPhoneTaken) {
			s.logger.Info("registration failed: duplicate identity field")
			return nil, err
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user registered", slog.String("user_id", createdUser.ID))
	s.auditLogger.LogAccountAction("user_registered", createdUser.ID, "", nil)

	return UserModelToResponse(createdUser), nil
}

// Login authenticates a user by email and password and returns a session
// token. Unknown email and wrong password are distinguishable results.
// Verification status is not checked here; unverified users may hold a
// session, the authentication middleware keeps them out of gated routes.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *UserResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", nil, models.ErrNotFound
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				FailureReason: "unknown_email",
				Success:       false,
			})
			return "", nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return "", nil, models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			FailureReason: "invalid_password",
			Success:       false,
		})
		return "", nil, models.ErrUnauthorized
	}

	token, err := s.tm.GenerateSessionToken(user.ID)
	if err != nil {
		s.logger.Error("failed to generate session token", slog.String("user_id", user.ID), slog.Any("error", err))
		return "", nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		UserID:    user.ID,
		Success:   true,
	})

	return token, UserModelToResponse(user), nil
}

// IssueSession generates a session token for an already-authenticated user,
// e.g. right after a successful code redemption.
func (s *AuthService) IssueSession(userID string) (string, error) {
	token, err := s.tm.GenerateSessionToken(userID)
	if err != nil {
		s.logger.Error("failed to generate session token", slog.String("user_id", userID), slog.Any("error", err))
		return "", models.ErrInternalServer
	}
	return token, nil
}

// UpdateProfile updates the caller's own name, phone, or password. Empty
// fields are left unchanged. A phone that collides with another user surfaces
// as a distinct conflict.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name, phone, password string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user for profile update", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if phone = strings.TrimSpace(phone); phone != "" {
		user.Phone = phone
	}
	if password != "" {
		if err := pkgauth.ValidatePassword(password); err != nil {
			return nil, err
		}
		hash, err := pkgauth.HashPassword(password)
		if err != nil {
			s.logger.Error("failed to hash password", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		user.PasswordHash = hash
	}

	updated, err := s.repo.Update(ctx, userID, user)
	if err != nil {
		if errors.Is(err, models.ErrPhoneTaken) {
			return nil, models.ErrPhoneTaken
		}
		s.logger.Error("failed to update profile", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAccountAction("profile_updated", userID, "", nil)

	return UserModelToResponse(updated), nil
}

// UserModelToResponse converts a user model to its response DTO. The password
// hash never appears in any response shape.
func UserModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Phone:      user.Phone,
		IsAdmin:    user.IsAdmin,
		SuperAdmin: user.SuperAdmin,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  user.UpdatedAt.Format(time.RFC3339),
	}
}
