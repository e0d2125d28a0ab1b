package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims embedded in a session token. Possession of a
// valid, unexpired, correctly signed token is the sole session proof; there
// is no server-side session table.
type TokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Verification-code purposes. They share one lifecycle and differ only in
// the email text sent to the user.
const (
	CodePurposeVerifyAccount = "verify_account"
	CodePurposePasswordReset = "password_reset"
)
