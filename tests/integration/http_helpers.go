package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/talentbridge/api/internal/auth"
	"github.com/talentbridge/api/internal/config"
	"github.com/talentbridge/api/internal/database"
	"github.com/talentbridge/api/internal/handlers"
	middlewareCustom "github.com/talentbridge/api/internal/middleware"
	"github.com/talentbridge/api/internal/routes"
	"github.com/talentbridge/api/internal/services"
	pkglogger "github.com/talentbridge/api/pkg/logger"
)

// SentEmail represents a captured email message
type SentEmail struct {
	To   string
	Code string
	Kind string // "verify" or "reset"
}

// MockEmailService captures sent codes for test assertions
type MockEmailService struct {
	SentEmails []SentEmail
	mu         sync.Mutex
}

func (m *MockEmailService) SendVerificationCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	m.record(SentEmail{To: email, Code: code, Kind: "verify"})
	return nil
}

func (m *MockEmailService) SendPasswordResetCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	m.record(SentEmail{To: email, Code: code, Kind: "reset"})
	return nil
}

func (m *MockEmailService) record(email SentEmail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentEmails = append(m.SentEmails, email)
}

// GetLastEmail returns the most recent email sent
func (m *MockEmailService) GetLastEmail() *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.SentEmails) == 0 {
		return nil
	}
	return &m.SentEmails[len(m.SentEmails)-1]
}

// WaitForEmail polls for a sent email, because code delivery is asynchronous
func (m *MockEmailService) WaitForEmail(timeout time.Duration) *SentEmail {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if email := m.GetLastEmail(); email != nil {
			return email
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

// TestServer wraps httptest.Server with database and all dependencies
type TestServer struct {
	Server       *httptest.Server
	DB           *database.DB
	EmailService *MockEmailService
	Config       *config.Config

	logger *slog.Logger
}

// NewTestServer initializes a complete HTTP server with real database + mocked email
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:          "test-secret-32-characters-long-for-testing",
			SessionTokenExpiry: 72 * time.Hour,
			SuperAdminEmail:    "super@talentbridge.io",
			CodeExpiry:         5 * time.Minute,
			CleanupInterval:    1 * time.Hour,
		},
		Server: config.ServerConfig{
			Port:           "0",
			Env:            "test",
			AllowedOrigins: []string{},
		},
	}

	userRepo, codeRepo := InitializeRepositories(db)

	mockEmail := &MockEmailService{
		SentEmails: []SentEmail{},
	}

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenExpiry)
	auditLogger := pkglogger.NewAuditLogger(logger)

	verificationService := services.NewVerificationService(
		codeRepo,
		userRepo,
		mockEmail,
		logger,
		cfg.Auth.CodeExpiry,
		cfg.Auth.SuperAdminEmail,
	)
	authService := services.NewAuthService(userRepo, tokenManager, logger, auditLogger)
	userService := services.NewUserService(userRepo, logger, auditLogger)

	cookieConfig := auth.CookieConfig{Secure: false}
	sessionMaxAge := int(cfg.Auth.SessionTokenExpiry.Seconds())

	authHandler := handlers.NewAuthHandler(authService, verificationService, cookieConfig, sessionMaxAge)
	userHandler := handlers.NewUserHandler(authService)
	adminHandler := handlers.NewAdminHandler(userService)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(r, authHandler, userHandler, adminHandler, tokenManager, userRepo, cfg.Auth.SuperAdminEmail)

	server := httptest.NewServer(r)

	return &TestServer{
		Server:       server,
		DB:           db,
		EmailService: mockEmail,
		Config:       cfg,
		logger:       logger,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
	}
}

// Request makes an HTTP request to the test server
func (ts *TestServer) Request(method, path string, body interface{}, headers map[string]string) (*http.Response, error) {
	url := ts.Server.URL + path

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return http.DefaultClient.Do(req)
}

// RequestWithSession makes an authenticated HTTP request carrying the session cookie
func (ts *TestServer) RequestWithSession(method, path, sessionToken string, body interface{}) (*http.Response, error) {
	headers := map[string]string{
		"Cookie": auth.SessionCookieName + "=" + sessionToken,
	}
	return ts.Request(method, path, body, headers)
}

// ExtractSessionCookie returns the session token set by an auth response, or ""
func ExtractSessionCookie(resp *http.Response) string {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == auth.SessionCookieName {
			return cookie.Value
		}
	}
	return ""
}

// ParseJSONResponse parses JSON response body into target struct
func ParseJSONResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}

// GetErrorMessage extracts the error message from an error response
func GetErrorMessage(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	var errResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return "", err
	}
	if msg, ok := errResp["message"].(string); ok {
		return msg, nil
	}
	return "", nil
}
