// Package memory provides an in-process account store for local development
// and tests. Data does not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Prantik009/accusitions/internal/core/domain"
)

// AccountRepository implements ports.AccountRepository with a map keyed by email.
type AccountRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*domain.Account
	newID   func() string
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byEmail: make(map[string]*domain.Account),
		newID:   func() string { return uuid.NewString() },
	}
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

// Create inserts account unless its email is taken. The check and the insert
// happen under one lock, mirroring a unique index.
func (r *AccountRepository) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[account.Email]; exists {
		return nil, domain.ErrAccountExists
	}
	stored := *account
	if stored.ID == "" {
		stored.ID = r.newID()
	}
	r.byEmail[stored.Email] = &stored

	clone := stored
	return &clone, nil
}

// Ping always succeeds; it lets the readiness probe treat every store alike.
func (r *AccountRepository) Ping(context.Context) error {
	return nil
}
