package auth

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name          string
		password      string
		shouldFail    bool
		errorContains string
	}{
		{
			name:       "valid password at minimum length",
			password:   "12345678",
			shouldFail: false,
		},
		{
			name:       "valid longer password",
			password:   "correct horse battery staple",
			shouldFail: false,
		},
		{
			name:          "too short",
			password:      "short",
			shouldFail:    true,
			errorContains: "at least",
		},
		{
			name:          "empty",
			password:      "",
			shouldFail:    true,
			errorContains: "at least",
		},
		{
			name:          "too long",
			password:      strings.Repeat("a", MaxPasswordLen+1),
			shouldFail:    true,
			errorContains: "at most",
		},
		{
			name:       "exactly at maximum length",
			password:   strings.Repeat("a", MaxPasswordLen),
			shouldFail: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)

			if tt.shouldFail {
				if err == nil {
					t.Errorf("expected error, got nil")
				} else if tt.errorContains != "" && !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("error message should contain '%s', got: %v", tt.errorContains, err)
				}
			} else {
				if err != nil {
					t.Errorf("expected no error, got: %v", err)
				}
			}
		})
	}
}

func TestHashAndComparePassword(t *testing.T) {
	password := "plausible-password-1"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "" {
		t.Error("hash should not be empty")
	}

	if hash == password {
		t.Error("hash should not equal plaintext password")
	}

	if err := ComparePassword(hash, password); err != nil {
		t.Errorf("ComparePassword with correct password failed: %v", err)
	}

	if err := ComparePassword(hash, "wrong-password-1"); err == nil {
		t.Error("ComparePassword with wrong password should fail")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("HashPassword with empty input should fail")
	}
}

func TestHashAndCompareCode(t *testing.T) {
	code := "482913"

	hash, err := HashCode(code)
	if err != nil {
		t.Fatalf("HashCode failed: %v", err)
	}

	if hash == code {
		t.Error("hash should not equal plaintext code")
	}

	if err := CompareCode(hash, code); err != nil {
		t.Errorf("CompareCode with correct code failed: %v", err)
	}

	if err := CompareCode(hash, "000000"); err == nil {
		t.Error("CompareCode with wrong code should fail")
	}
}

func TestHashCode_Empty(t *testing.T) {
	if _, err := HashCode(""); err == nil {
		t.Error("HashCode with empty input should fail")
	}
}
