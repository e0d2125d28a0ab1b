package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/talentbridge/api/internal/models"
	"github.com/talentbridge/api/pkg/auth"
	"github.com/talentbridge/api/pkg/logger"
)

// VerificationCodeRepository defines the interface for verification code operations
type VerificationCodeRepository interface {
	Create(ctx context.Context, userID, codeHash string, expiresAt time.Time) (*models.VerificationCode, error)
	GetActiveByUserID(ctx context.Context, userID string) (*models.VerificationCode, error)
	DeleteByUserID(ctx context.Context, userID string) error
	CleanupExpired(ctx context.Context) (int64, error)
}

// VerificationService handles the verification-code lifecycle
type VerificationService struct {
	codeRepo        VerificationCodeRepository
	userRepo        UserRepository
	emailService    EmailService
	logger          *slog.Logger
	codeExpiry      time.Duration
	superAdminEmail string
}

// NewVerificationService creates a new VerificationService
func NewVerificationService(
	codeRepo VerificationCodeRepository,
	userRepo UserRepository,
	emailService EmailService,
	logger *slog.Logger,
	codeExpiry time.Duration,
	superAdminEmail string,
) *VerificationService {
	return &VerificationService{
		codeRepo:        codeRepo,
		userRepo:        userRepo,
		emailService:    emailService,
		logger:          logger,
		codeExpiry:      codeExpiry,
		superAdminEmail: strings.ToLower(strings.TrimSpace(superAdminEmail)),
	}
}

// generateCode returns a uniform random 6-digit code as a string.
// crypto/rand with rejection sampling via big.Int keeps the distribution
// flat across [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// RequestCode generates a fresh code for the user, replacing any earlier one,
// and dispatches it by email. The email send is best-effort: the call reports
// success once the code row is persisted, and send failures are only logged.
func (s *VerificationService) RequestCode(ctx context.Context, email, purpose string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to look up user for code request",
			slog.String("email", logger.SanitizedEmail(email)),
			slog.Any("error", err))
		return models.ErrInternalServer
	}

	code, err := generateCode()
	if err != nil {
		s.logger.Error("failed to generate verification code", slog.Any("error", err))
		return models.ErrInternalServer
	}

	codeHash, err := auth.HashCode(code)
	if err != nil {
		s.logger.Error("failed to hash verification code", slog.Any("error", err))
		return models.ErrInternalServer
	}

	// Supersede: at most one live code per user
	if err := s.codeRepo.DeleteByUserID(ctx, user.ID); err != nil {
		s.logger.Error("failed to delete superseded codes",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return models.ErrInternalServer
	}

	expiresAt := time.Now().Add(s.codeExpiry)

	if _, err := s.codeRepo.Create(ctx, user.ID, codeHash, expiresAt); err != nil {
		s.logger.Error("failed to store verification code",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return models.ErrInternalServer
	}

	// Fire-and-forget: the request has succeeded once the row is stored.
	// The user can always ask for a new code if delivery fails.
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var sendErr error
		switch purpose {
		case models.CodePurposePasswordReset:
			sendErr = s.emailService.SendPasswordResetCode(sendCtx, user.Email, code, expiresAt)
		default:
			sendErr = s.emailService.SendVerificationCode(sendCtx, user.Email, code, expiresAt)
		}
		if sendErr != nil {
			s.logger.Error("failed to dispatch verification code email",
				slog.String("user_id", user.ID),
				slog.String("purpose", purpose),
				slog.Any("error", sendErr))
		}
	}()

	s.logger.Info("verification code issued",
		slog.String("user_id", user.ID),
		slog.String("purpose", purpose),
		slog.Time("expires_at", expiresAt))

	return nil
}

// RedeemCode checks a submitted code against the user's live code. On match
// the consumed code is deleted, the account is marked verified, and the user
// is promoted to super admin if their email matches the configured address.
// Returns the updated user so the caller can issue a session.
func (s *VerificationService) RedeemCode(ctx context.Context, email, code string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to look up user for code redemption",
			slog.String("email", logger.SanitizedEmail(email)),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	// Expired codes are filtered out at the query, so an expired code, a
	// never-issued one, and a wrong one all fail the same way.
	active, err := s.codeRepo.GetActiveByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to look up active code",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := auth.CompareCode(active.CodeHash, code); err != nil {
		s.logger.Warn("verification code mismatch",
			slog.String("user_id", user.ID))
		return nil, models.ErrUnauthorized
	}

	// Single use: consumed codes are gone immediately
	if err := s.codeRepo.DeleteByUserID(ctx, user.ID); err != nil {
		s.logger.Error("failed to delete consumed code",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user.IsVerified = true
	if s.superAdminEmail != "" && user.Email == s.superAdminEmail {
		user.IsAdmin = true
		user.SuperAdmin = true
	}

	updated, err := s.userRepo.Update(ctx, user.ID, user)
	if err != nil {
		s.logger.Error("failed to persist verification status",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("verification code redeemed",
		slog.String("user_id", user.ID),
		slog.Bool("super_admin", updated.SuperAdmin))

	return updated, nil
}

// ResetPassword redeems a password-reset code and replaces the user's
// password in the same step.
func (s *VerificationService) ResetPassword(ctx context.Context, email, code, newPassword string) (*models.User, error) {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return nil, models.ErrBadRequest
	}

	user, err := s.RedeemCode(ctx, email, code)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash new password",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user.PasswordHash = hash
	updated, err := s.userRepo.Update(ctx, user.ID, user)
	if err != nil {
		s.logger.Error("failed to persist new password",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("password reset completed", slog.String("user_id", user.ID))

	return updated, nil
}

// CleanupExpiredCodes removes expired code rows. The background cleanup
// manager calls this on its ticker.
func (s *VerificationService) CleanupExpiredCodes(ctx context.Context) (int64, error) {
	return s.codeRepo.CleanupExpired(ctx)
}
