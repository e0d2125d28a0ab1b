package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentbridge/api/internal/database"
	"github.com/talentbridge/api/internal/models"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

// rowScanner interface for scanning user rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow populates a User model from a full database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash,
		&user.IsAdmin, &user.SuperAdmin, &user.IsVerified,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

// scanPublicUserRow populates a User model from a row whose projection
// excludes the password hash
func scanPublicUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone,
		&user.IsAdmin, &user.SuperAdmin, &user.IsVerified,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

// scanPublicUserRows iterates through rows and scans each into User models
func scanPublicUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanPublicUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, name, email, phone, password_hash, is_admin, super_admin, is_verified, created_at, updated_at
		FROM users WHERE id = $1
	`

	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

// GetByIDPublic loads a user with the password hash excluded from the
// projection. This is what the authentication middleware attaches to the
// request context.
func (r *UserRepository) GetByIDPublic(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, name, email, phone, is_admin, super_admin, is_verified, created_at, updated_at
		FROM users WHERE id = $1
	`

	return scanPublicUserRow(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, phone, password_hash, is_admin, super_admin, is_verified, created_at, updated_at
		FROM users WHERE email = $1
	`

	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	query := `
		SELECT id, name, email, phone, password_hash, is_admin, super_admin, is_verified, created_at, updated_at
		FROM users WHERE phone = $1
	`

	return scanUserRow(r.pool.QueryRow(ctx, query, phone))
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `
		SELECT id, name, email, phone, is_admin, super_admin, is_verified, created_at, updated_at
		FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanPublicUserRows(rows)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, name, email, phone, password_hash, is_admin, super_admin, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, name, email, phone, password_hash, is_admin, super_admin, is_verified, created_at, updated_at
	`

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.Phone, user.PasswordHash,
		user.IsAdmin, user.SuperAdmin, user.IsVerified,
		user.CreatedAt, user.UpdatedAt,
	))
}

func (r *UserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users SET name = $1, phone = $2, password_hash = $3, is_admin = $4, super_admin = $5, is_verified = $6, updated_at = $7
		WHERE id = $8
		RETURNING id, name, email, phone, password_hash, is_admin, super_admin, is_verified, created_at, updated_at
	`

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.Name, user.Phone, user.PasswordHash,
		user.IsAdmin, user.SuperAdmin, user.IsVerified, user.UpdatedAt, id,
	))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
