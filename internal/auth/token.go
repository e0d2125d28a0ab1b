package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/talentbridge/api/internal/models"
)

// TokenManager handles session token generation and validation
type TokenManager struct {
	secret        string
	sessionExpiry time.Duration
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, sessionExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:        secret,
		sessionExpiry: sessionExpiry,
	}
}

// SessionExpiry returns the configured session lifetime
func (tm *TokenManager) SessionExpiry() time.Duration {
	return tm.sessionExpiry
}

// GenerateSessionToken creates a signed session token for the user
func (tm *TokenManager) GenerateSessionToken(userID string) (string, error) {
	claims := &models.TokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.sessionExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ValidateSessionToken verifies a token and returns its claims
func (tm *TokenManager) ValidateSessionToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	if !token.Valid {
		return nil, models.ErrUnauthorized
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("invalid token: missing subject")
	}

	return claims, nil
}
