package domain

import (
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account models a registered identity. PasswordHash never leaves the core.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicAccount is the outward view of an Account.
type PublicAccount struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Public strips the password hash.
func (a *Account) Public() *PublicAccount {
	if a == nil {
		return nil
	}
	return &PublicAccount{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}
}

// NormalizeEmail is the canonical form used as the uniqueness key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
