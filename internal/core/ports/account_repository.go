package ports

import (
	"context"

	"github.com/Prantik009/accusitions/internal/core/domain"
)

// AccountRepository defines the persistence contract for accounts.
//
// FindByEmail returns domain.ErrAccountNotFound when no account matches.
// Create returns domain.ErrAccountExists when the storage engine's uniqueness
// constraint on email rejects the insert; this is the authoritative guard.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
}
