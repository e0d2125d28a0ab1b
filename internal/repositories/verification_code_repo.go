package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentbridge/api/internal/database"
	"github.com/talentbridge/api/internal/models"
)

// VerificationCodeRepository handles verification-code data access
type VerificationCodeRepository struct {
	pool *pgxpool.Pool
}

// NewVerificationCodeRepository creates a new VerificationCodeRepository
func NewVerificationCodeRepository(db *database.DB) *VerificationCodeRepository {
	return &VerificationCodeRepository{pool: db.Pool}
}

func scanCodeRow(row rowScanner) (*models.VerificationCode, error) {
	var code models.VerificationCode

	err := row.Scan(
		&code.ID, &code.UserID, &code.CodeHash, &code.ExpiresAt, &code.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &code, nil
}

// Create inserts a new verification code record
func (r *VerificationCodeRepository) Create(ctx context.Context, userID, codeHash string, expiresAt time.Time) (*models.VerificationCode, error) {
	query := `
		INSERT INTO verification_codes (id, user_id, code_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, user_id, code_hash, expires_at, created_at
	`

	code, err := scanCodeRow(r.pool.QueryRow(ctx, query, uuid.New().String(), userID, codeHash, expiresAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create verification code: %w", err)
	}

	return code, nil
}

// GetActiveByUserID retrieves the live code for a user. Expired rows are
// filtered out here, so "not found" covers both "never requested" and
// "expired" - callers cannot tell them apart, and neither can clients.
func (r *VerificationCodeRepository) GetActiveByUserID(ctx context.Context, userID string) (*models.VerificationCode, error) {
	query := `
		SELECT id, user_id, code_hash, expires_at, created_at
		FROM verification_codes
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	return scanCodeRow(r.pool.QueryRow(ctx, query, userID))
}

// DeleteByUserID deletes all codes for a user. Called before inserting a new
// code (supersede, not accumulate) and after a successful redemption.
func (r *VerificationCodeRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM verification_codes WHERE user_id = $1`

	_, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete codes for user: %w", err)
	}

	return nil
}

// CleanupExpired deletes codes whose expiration timestamp has passed. The
// background cleanup manager calls this periodically; reads already exclude
// expired rows, so this only reclaims space.
func (r *VerificationCodeRepository) CleanupExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM verification_codes WHERE expires_at < NOW()`

	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired codes: %w", err)
	}

	return result.RowsAffected(), nil
}
