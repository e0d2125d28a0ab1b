package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentbridge/api/internal/models"
)

const testSecret = "token-test-secret-0123456789abcdef"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour)

	token, err := tm.GenerateSessionToken("user123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user123", claims.UserID)
	assert.NotEmpty(t, claims.ID, "every token carries a unique JTI")
	assert.WithinDuration(t, time.Now().Add(1*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	tm := NewTokenManager(testSecret, -1*time.Minute)

	token, err := tm.GenerateSessionToken("user123")
	require.NoError(t, err)

	claims, err := tm.ValidateSessionToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour)
	other := NewTokenManager("a-completely-different-secret-value", 1*time.Hour)

	token, err := tm.GenerateSessionToken("user123")
	require.NoError(t, err)

	claims, err := other.ValidateSessionToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestTokenManager_MalformedToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour)

	for _, garbage := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		claims, err := tm.ValidateSessionToken(garbage)
		assert.Error(t, err, "input %q should not validate", garbage)
		assert.Nil(t, claims)
	}
}

func TestTokenManager_RejectsUnsignedAlg(t *testing.T) {
	tm := NewTokenManager(testSecret, 1*time.Hour)

	claims := &models.TokenClaims{
		UserID: "user123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		},
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	parsed, err := tm.ValidateSessionToken(token)
	assert.Error(t, err)
	assert.Nil(t, parsed)
}
