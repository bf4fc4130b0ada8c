package handler

import (
	"strings"

	"github.com/Prantik009/accusitions/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Passwords are capped at 72 bytes, the most bcrypt will hash.
type signupRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

func (r *signupRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

type signinRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *signinRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type sessionResponse struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"exp"`
}

func toUserResponse(a *domain.PublicAccount) userResponse {
	return userResponse{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}
