package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/talentbridge/api/internal/models"
	pkglogger "github.com/talentbridge/api/pkg/logger"
)

// UserService handles admin-facing user management
type UserService struct {
	repo        UserRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *UserService {
	return &UserService{
		repo:        repo,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByIDPublic(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return UserModelToResponse(user), nil
}

// ListUsers retrieves a page of users
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*UserResponse, error) {
	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list users", slog.Int("limit", limit), slog.Int("offset", offset), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, UserModelToResponse(user))
	}

	return responses, nil
}

// UpdateUser updates another user's name or phone on behalf of an admin
func (s *UserService) UpdateUser(ctx context.Context, adminID, id, name, phone string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if phone = strings.TrimSpace(phone); phone != "" {
		user.Phone = phone
	}

	updated, err := s.repo.Update(ctx, id, user)
	if err != nil {
		if errors.Is(err, models.ErrPhoneTaken) {
			return nil, models.ErrPhoneTaken
		}
		s.logger.Error("failed to update user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAccountAction("user_updated", id, "", map[string]string{"actor_id": adminID})

	return UserModelToResponse(updated), nil
}

// DeleteUser deletes a user. Verification codes go with it via the FK cascade.
func (s *UserService) DeleteUser(ctx context.Context, adminID, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete user", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user deleted", slog.String("user_id", id))
	s.auditLogger.LogAccountAction("user_deleted", id, "", map[string]string{"actor_id": adminID})

	return nil
}

// SetAdmin grants or revokes another user's admin flag. Super-admin only at
// the route level; the flag itself is plain data here.
func (s *UserService) SetAdmin(ctx context.Context, actorID, id string, isAdmin bool) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user.IsAdmin = isAdmin

	updated, err := s.repo.Update(ctx, id, user)
	if err != nil {
		s.logger.Error("failed to set admin flag", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	action := "admin_granted"
	if !isAdmin {
		action = "admin_revoked"
	}
	s.auditLogger.LogAccountAction(action, id, "", map[string]string{"actor_id": actorID})

	return UserModelToResponse(updated), nil
}
