package ports

import (
	"context"

	"github.com/Prantik009/accusitions/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.Register.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // optional, defaults to domain.RoleUser
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.PublicAccount, error)
	Authenticate(ctx context.Context, email, password string) (*domain.PublicAccount, error)
}

// PasswordHasher hashes and verifies passwords. A mismatch is (false, nil);
// only internal failures return an error, wrapping domain.ErrHashing.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hash string) (bool, error)
}
