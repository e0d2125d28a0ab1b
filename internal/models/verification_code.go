package models

import (
	"time"
)

// VerificationCode is a short-lived one-time code bound to a user. The stored
// value is a bcrypt hash; the plaintext only ever travels once, by email.
// At most one live code exists per user: requesting a new one supersedes all
// prior rows.
type VerificationCode struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CodeHash  string    `json:"-"` // never expose the hash
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired checks if the code has passed its expiration timestamp
func (c *VerificationCode) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}
