package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/talentbridge/api/internal/database"
	"github.com/talentbridge/api/internal/models"
	"github.com/talentbridge/api/internal/repositories"
	"github.com/talentbridge/api/pkg/auth"
)

// TestDB manages a PostgreSQL testcontainer and database handles for
// integration tests.
type TestDB struct {
	Container  testcontainers.Container
	ConnString string
	Pool       *pgxpool.Pool
	DB         *database.DB
}

// SetupTestDatabase starts a PostgreSQL container, connects a pool, and runs
// the embedded migrations.
func SetupTestDatabase(ctx context.Context) (*TestDB, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("talentbridge"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Quiet logger; migration output is noise in test runs
	db := database.NewFromPool(pool, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := db.Migrate(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestDB{
		Container:  container,
		ConnString: connStr,
		Pool:       pool,
		DB:         db,
	}, nil
}

// Teardown stops the container and closes the connection pool
func (db *TestDB) Teardown(ctx context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}

// CleanupTables truncates all tables for test isolation
func (db *TestDB) CleanupTables(ctx context.Context) error {
	tables := []string{
		"verification_codes",
		"users",
	}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// InitializeRepositories creates all repository instances from the database wrapper
func InitializeRepositories(db *database.DB) (
	*repositories.UserRepository,
	*repositories.VerificationCodeRepository,
) {
	return repositories.NewUserRepository(db),
		repositories.NewVerificationCodeRepository(db)
}

// SeedUser inserts a test user with a hashed password
func SeedUser(ctx context.Context, pool *pgxpool.Pool, email, password string, verified bool) (*models.User, error) {
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (id, name, email, phone, password_hash, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, name, email, phone, password_hash, is_admin, super_admin, is_verified, created_at, updated_at
	`

	id := uuid.NewString()
	phone := "+1555" + id[:7]

	var user models.User
	err = pool.QueryRow(ctx, query, id, "Test User", email, phone, hashedPassword, verified).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.SuperAdmin,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &user, nil
}

// SeedVerificationCode inserts an active code for the user and returns the
// plaintext code.
func SeedVerificationCode(ctx context.Context, pool *pgxpool.Pool, userID string) (string, error) {
	return seedCode(ctx, pool, userID, "NOW() + INTERVAL '5 minutes'")
}

// SeedExpiredVerificationCode inserts a code whose lifetime has already passed
func SeedExpiredVerificationCode(ctx context.Context, pool *pgxpool.Pool, userID string) (string, error) {
	return seedCode(ctx, pool, userID, "NOW() - INTERVAL '1 minute'")
}

func seedCode(ctx context.Context, pool *pgxpool.Pool, userID, expiresAt string) (string, error) {
	code := "482913"
	codeHash, err := auth.HashCode(code)
	if err != nil {
		return "", fmt.Errorf("failed to hash code: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO verification_codes (id, user_id, code_hash, expires_at, created_at)
		VALUES ($1, $2, $3, %s, NOW())
		RETURNING user_id
	`, expiresAt)

	var returnedUserID string
	if err := pool.QueryRow(ctx, query, uuid.NewString(), userID, codeHash).Scan(&returnedUserID); err != nil {
		return "", fmt.Errorf("failed to insert verification code: %w", err)
	}

	return code, nil
}
