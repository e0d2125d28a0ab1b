package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentbridge/api/internal/models"
	"github.com/talentbridge/api/internal/services"
)

// MockAdminService implements AdminServiceInterface for testing
type MockAdminService struct {
	GetUserByIDFunc func(ctx context.Context, id string) (*services.UserResponse, error)
	ListUsersFunc   func(ctx context.Context, limit, offset int) ([]*services.UserResponse, error)
	UpdateUserFunc  func(ctx context.Context, adminID, id, name, phone string) (*services.UserResponse, error)
	DeleteUserFunc  func(ctx context.Context, adminID, id string) error
	SetAdminFunc    func(ctx context.Context, actorID, id string, isAdmin bool) (*services.UserResponse, error)
}

func (m *MockAdminService) GetUserByID(ctx context.Context, id string) (*services.UserResponse, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockAdminService) ListUsers(ctx context.Context, limit, offset int) ([]*services.UserResponse, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx, limit, offset)
	}
	return []*services.UserResponse{}, nil
}

func (m *MockAdminService) UpdateUser(ctx context.Context, adminID, id, name, phone string) (*services.UserResponse, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, adminID, id, name, phone)
	}
	return nil, models.ErrNotFound
}

func (m *MockAdminService) DeleteUser(ctx context.Context, adminID, id string) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, adminID, id)
	}
	return models.ErrNotFound
}

func (m *MockAdminService) SetAdmin(ctx context.Context, actorID, id string, isAdmin bool) (*services.UserResponse, error) {
	if m.SetAdminFunc != nil {
		return m.SetAdminFunc(ctx, actorID, id, isAdmin)
	}
	return nil, models.ErrNotFound
}

// adminRouter mounts the handler under real chi routes so URL params resolve
func adminRouter(handler *AdminHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/admin/users", handler.ListUsers)
	r.Get("/admin/users/{id}", handler.GetUser)
	r.Put("/admin/users/{id}", handler.UpdateUser)
	r.Delete("/admin/users/{id}", handler.DeleteUser)
	r.Put("/admin/users/{id}/admin", handler.SetAdmin)
	return r
}

func adminUser() *models.User {
	return &models.User{ID: "admin1", Email: "admin@example.com", IsAdmin: true, IsVerified: true}
}

func TestAdminHandler_ListUsers_Pagination(t *testing.T) {
	svc := &MockAdminService{
		ListUsersFunc: func(ctx context.Context, limit, offset int) ([]*services.UserResponse, error) {
			assert.Equal(t, 25, limit)
			assert.Equal(t, 50, offset)
			return []*services.UserResponse{{ID: "u1"}}, nil
		},
	}
	router := adminRouter(NewAdminHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/admin/users?limit=25&offset=50", nil, adminUser()))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Users  []*services.UserResponse `json:"users"`
		Limit  int                      `json:"limit"`
		Offset int                      `json:"offset"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Users, 1)
	assert.Equal(t, 25, resp.Limit)
}

func TestAdminHandler_ListUsers_BadLimitFallsBack(t *testing.T) {
	svc := &MockAdminService{
		ListUsersFunc: func(ctx context.Context, limit, offset int) ([]*services.UserResponse, error) {
			assert.Equal(t, defaultPageLimit, limit)
			return []*services.UserResponse{}, nil
		},
	}
	router := adminRouter(NewAdminHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/admin/users?limit=99999", nil, adminUser()))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminHandler_GetUser_NotFound(t *testing.T) {
	router := adminRouter(NewAdminHandler(&MockAdminService{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/admin/users/missing", nil, adminUser()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeError(t, rec).Message)
}

func TestAdminHandler_UpdateUser_Success(t *testing.T) {
	svc := &MockAdminService{
		UpdateUserFunc: func(ctx context.Context, adminID, id, name, phone string) (*services.UserResponse, error) {
			assert.Equal(t, "admin1", adminID)
			assert.Equal(t, "u1", id)
			return &services.UserResponse{ID: id, Name: name}, nil
		},
	}
	router := adminRouter(NewAdminHandler(svc))

	body, _ := json.Marshal(AdminUpdateUserRequest{Name: "New Name"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/admin/users/u1", body, adminUser()))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminHandler_DeleteUser_Success(t *testing.T) {
	var deletedID string
	svc := &MockAdminService{
		DeleteUserFunc: func(ctx context.Context, adminID, id string) error {
			deletedID = id
			return nil
		},
	}
	router := adminRouter(NewAdminHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/admin/users/u1", nil, adminUser()))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "u1", deletedID)
}

func TestAdminHandler_SetAdmin_Grant(t *testing.T) {
	svc := &MockAdminService{
		SetAdminFunc: func(ctx context.Context, actorID, id string, isAdmin bool) (*services.UserResponse, error) {
			assert.True(t, isAdmin)
			return &services.UserResponse{ID: id, IsAdmin: isAdmin}, nil
		},
	}
	router := adminRouter(NewAdminHandler(svc))

	grant := true
	body, _ := json.Marshal(SetAdminRequest{IsAdmin: &grant})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/admin/users/u1/admin", body, adminUser()))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminHandler_SetAdmin_MissingFlag(t *testing.T) {
	router := adminRouter(NewAdminHandler(&MockAdminService{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/admin/users/u1/admin", []byte(`{}`), adminUser()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
