package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentbridge/api/internal/auth"
	"github.com/talentbridge/api/internal/models"
	"github.com/talentbridge/api/internal/services"
)

// MockProfileService implements ProfileServiceInterface for testing
type MockProfileService struct {
	UpdateProfileFunc func(ctx context.Context, userID, name, phone, password string) (*services.UserResponse, error)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID, name, phone, password string) (*services.UserResponse, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, name, phone, password)
	}
	return nil, models.ErrInternalServer
}

func authedRequest(method, path string, body []byte, user *models.User) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), auth.UserContextKey, user)
	return req.WithContext(ctx)
}

func TestUserHandler_Me(t *testing.T) {
	handler := NewUserHandler(&MockProfileService{})
	user := &models.User{ID: "user123", Name: "Jane Doe", Email: "jane@example.com", IsVerified: true}

	rec := httptest.NewRecorder()
	handler.Me(rec, authedRequest(http.MethodGet, "/users/me", nil, user))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp services.UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "user123", resp.ID)
	assert.Equal(t, "jane@example.com", resp.Email)
}

func TestUserHandler_Me_NoContextUser(t *testing.T) {
	handler := NewUserHandler(&MockProfileService{})

	rec := httptest.NewRecorder()
	handler.Me(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandler_UpdateMe_Success(t *testing.T) {
	svc := &MockProfileService{
		UpdateProfileFunc: func(ctx context.Context, userID, name, phone, password string) (*services.UserResponse, error) {
			assert.Equal(t, "user123", userID)
			return &services.UserResponse{ID: userID, Name: name}, nil
		},
	}
	handler := NewUserHandler(svc)
	user := &models.User{ID: "user123", IsVerified: true}

	body, _ := json.Marshal(UpdateProfileRequest{Name: "Jane Smith"})
	rec := httptest.NewRecorder()
	handler.UpdateMe(rec, authedRequest(http.MethodPut, "/users/me", body, user))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserHandler_UpdateMe_PhoneConflict(t *testing.T) {
	svc := &MockProfileService{
		UpdateProfileFunc: func(ctx context.Context, userID, name, phone, password string) (*services.UserResponse, error) {
			return nil, models.ErrPhoneTaken
		},
	}
	handler := NewUserHandler(svc)
	user := &models.User{ID: "user123", IsVerified: true}

	body, _ := json.Marshal(UpdateProfileRequest{Phone: "+15559998888"})
	rec := httptest.NewRecorder()
	handler.UpdateMe(rec, authedRequest(http.MethodPut, "/users/me", body, user))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Phone number already in use", decodeError(t, rec).Message)
}

func TestUserHandler_UpdateMe_ShortPassword(t *testing.T) {
	handler := NewUserHandler(&MockProfileService{})
	user := &models.User{ID: "user123", IsVerified: true}

	body, _ := json.Marshal(UpdateProfileRequest{Password: "short"})
	rec := httptest.NewRecorder()
	handler.UpdateMe(rec, authedRequest(http.MethodPut, "/users/me", body, user))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
