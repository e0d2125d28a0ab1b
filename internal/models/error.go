package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Registration/profile conflicts, kept distinct so handlers can say which
	// field collided
	ErrEmailTaken = errors.New("email already in use")
	ErrPhoneTaken = errors.New("phone number already in use")
)
