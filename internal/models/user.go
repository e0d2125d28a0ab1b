package models

import (
	"time"
)

type User struct {
	ID           string
	Name         string
	Email        string // stored lowercased, unique
	Phone        string // unique
	PasswordHash string
	IsAdmin      bool
	SuperAdmin   bool // set during verification when the email matches the configured super-admin address
	IsVerified   bool // gates every authenticated route, not login itself
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
