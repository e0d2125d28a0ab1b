package services

import (
	"context"
	"time"

	"github.com/talentbridge/api/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc       func(ctx context.Context, id string) (*models.User, error)
	GetByIDPublicFunc func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*models.User, error)
	GetByPhoneFunc    func(ctx context.Context, phone string) (*models.User, error)
	ListFunc          func(ctx context.Context, limit, offset int) ([]*models.User, error)
	CreateFunc        func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc        func(ctx context.Context, id string, user *models.User) (*models.User, error)
	DeleteFunc        func(ctx context.Context, id string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByIDPublic(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDPublicFunc != nil {
		return m.GetByIDPublicFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	if m.GetByPhoneFunc != nil {
		return m.GetByPhoneFunc(ctx, phone)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return user, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockVerificationCodeRepository implements VerificationCodeRepository for testing
type MockVerificationCodeRepository struct {
	CreateFunc            func(ctx context.Context, userID, codeHash string, expiresAt time.Time) (*models.VerificationCode, error)
	GetActiveByUserIDFunc func(ctx context.Context, userID string) (*models.VerificationCode, error)
	DeleteByUserIDFunc    func(ctx context.Context, userID string) error
	CleanupExpiredFunc    func(ctx context.Context) (int64, error)
}

func (m *MockVerificationCodeRepository) Create(ctx context.Context, userID, codeHash string, expiresAt time.Time) (*models.VerificationCode, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, codeHash, expiresAt)
	}
	return &models.VerificationCode{
		ID:        "code_123",
		UserID:    userID,
		CodeHash:  codeHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

func (m *MockVerificationCodeRepository) GetActiveByUserID(ctx context.Context, userID string) (*models.VerificationCode, error) {
	if m.GetActiveByUserIDFunc != nil {
		return m.GetActiveByUserIDFunc(ctx, userID)
	}
	return nil, models.ErrNotFound
}

func (m *MockVerificationCodeRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if m.DeleteByUserIDFunc != nil {
		return m.DeleteByUserIDFunc(ctx, userID)
	}
	return nil
}

func (m *MockVerificationCodeRepository) CleanupExpired(ctx context.Context) (int64, error) {
	if m.CleanupExpiredFunc != nil {
		return m.CleanupExpiredFunc(ctx)
	}
	return 0, nil
}

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	SendVerificationCodeFunc  func(ctx context.Context, email, code string, expiresAt time.Time) error
	SendPasswordResetCodeFunc func(ctx context.Context, email, code string, expiresAt time.Time) error
}

func (m *MockEmailService) SendVerificationCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	if m.SendVerificationCodeFunc != nil {
		return m.SendVerificationCodeFunc(ctx, email, code, expiresAt)
	}
	return nil
}

func (m *MockEmailService) SendPasswordResetCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	if m.SendPasswordResetCodeFunc != nil {
		return m.SendPasswordResetCodeFunc(ctx, email, code, expiresAt)
	}
	return nil
}

// NewTestUser creates a verified user for tests
func NewTestUser(id, email, name string) *models.User {
	now := time.Now()
	return &models.User{
		ID:         id,
		Name:       name,
		Email:      email,
		Phone:      "+15550001111",
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewTestUserUnverified creates an unverified user
func NewTestUserUnverified(id, email, name string) *models.User {
	user := NewTestUser(id, email, name)
	user.IsVerified = false
	return user
}

// NewTestUserAdmin creates a verified admin user
func NewTestUserAdmin(id, email, name string) *models.User {
	user := NewTestUser(id, email, name)
	user.IsAdmin = true
	return user
}

// NewTestCode creates a live verification code row
func NewTestCode(id, userID, codeHash string) *models.VerificationCode {
	return &models.VerificationCode{
		ID:        id,
		UserID:    userID,
		CodeHash:  codeHash,
		ExpiresAt: time.Now().Add(5 * time.Minute),
		CreatedAt: time.Now(),
	}
}
