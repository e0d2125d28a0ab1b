package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentbridge/api/internal/models"
)

type mockUserFetcher struct {
	GetByIDPublicFunc func(ctx context.Context, id string) (*models.User, error)
}

func (m *mockUserFetcher) GetByIDPublic(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDPublicFunc != nil {
		return m.GetByIDPublicFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func verifiedUser(id string) *models.User {
	return &models.User{
		ID:         id,
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Phone:      "+15550001111",
		IsVerified: true,
	}
}

// okHandler records the context user and returns 200
func okHandler(t *testing.T, captured **models.User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithSession(t *testing.T, tm *TokenManager, userID string) *http.Request {
	t.Helper()
	token, err := tm.GenerateSessionToken(userID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	return req
}

func TestRequireUser_NoCookie(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour)
	var captured *models.User

	handler := RequireUser(tm, &mockUserFetcher{})(okHandler(t, &captured))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, captured)
}

func TestRequireUser_InvalidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour)
	var captured *models.User

	handler := RequireUser(tm, &mockUserFetcher{})(okHandler(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUser_ExpiredToken(t *testing.T) {
	expired := NewTokenManager(testSecret, -1*time.Minute)
	tm := NewTokenManager(testSecret, 1*time.Hour)
	var captured *models.User

	handler := RequireUser(tm, &mockUserFetcher{})(okHandler(t, &captured))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSession(t, expired, "user123"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUser_DeletedUser(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour)
	var captured *models.User

	fetcher := &mockUserFetcher{
		GetByIDPublicFunc: func(ctx context.Context, id string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}
	handler := RequireUser(tm, fetcher)(okHandler(t, &captured))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSession(t, tm, "user123"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code, "a token for a deleted user must not pass")
}

func TestRequireUser_UnverifiedUser(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour)
	var captured *models.User

	fetcher := &mockUserFetcher{
		GetByIDPublicFunc: func(ctx context.Context, id string) (*models.User, error) {
			user := verifiedUser(id)
			user.IsVerified = false
			return user, nil
		},
	}
	handler := RequireUser(tm, fetcher)(okHandler(t, &captured))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSession(t, tm, "user123"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code, "unverified accounts cannot reach gated routes")
}

func TestRequireUser_Success(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour)
	var captured *models.User

	fetcher := &mockUserFetcher{
		GetByIDPublicFunc: func(ctx context.Context, id string) (*models.User, error) {
			return verifiedUser(id), nil
		},
	}
	handler := RequireUser(tm, fetcher)(okHandler(t, &captured))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSession(t, tm, "user123"))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "user123", captured.ID)
	assert.Empty(t, captured.PasswordHash, "context user is loaded without the password hash")
}

func requestWithContextUser(user *models.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	ctx := context.WithValue(req.Context(), UserContextKey, user)
	return req.WithContext(ctx)
}

func TestRequireAdmin_NonAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithContextUser(verifiedUser("user123")))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin_UnverifiedAdmin(t *testing.T) {
	user := verifiedUser("user123")
	user.IsAdmin = true
	user.IsVerified = false

	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithContextUser(user))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin_Admin(t *testing.T) {
	user := verifiedUser("user123")
	user.IsAdmin = true

	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithContextUser(user))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSuperAdmin_EmailMismatch(t *testing.T) {
	user := verifiedUser("user123")
	user.IsAdmin = true
	user.SuperAdmin = true // stored flag alone is not enough

	handler := RequireSuperAdmin("boss@example.com")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithContextUser(user))

	assert.Equal(t, http.StatusForbidden, rec.Code, "access is decided by the live email comparison")
}

func TestRequireSuperAdmin_EmailMatch(t *testing.T) {
	user := verifiedUser("user123")
	user.Email = "boss@example.com"

	handler := RequireSuperAdmin("Boss@Example.com")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithContextUser(user))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSuperAdmin_Unconfigured(t *testing.T) {
	user := verifiedUser("user123")
	user.Email = ""

	handler := RequireSuperAdmin("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithContextUser(user))

	assert.Equal(t, http.StatusForbidden, rec.Code, "no configured address means nobody is super admin")
}
