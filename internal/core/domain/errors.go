package domain

import "errors"

// Authentication outcomes. Handlers match on these with errors.Is.
var (
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrHashing            = errors.New("password hashing failed")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("access forbidden")
)

// Session token failures.
var (
	ErrTokenInvalid   = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
)
