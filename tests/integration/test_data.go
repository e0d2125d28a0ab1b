package integration

import (
	"fmt"
	"time"
)

// TestCredentials generates unique registration input using a timestamp so
// parallel tests never collide on the email or phone unique constraints.
func TestCredentials(suffix string) (name, email, phone, password string) {
	ts := time.Now().UnixNano()
	name = "Test User " + suffix
	email = fmt.Sprintf("test-%d-%s@example.com", ts, suffix)
	phone = fmt.Sprintf("+1%010d", ts%10000000000)
	password = "test-password-1"
	return
}
