// Package password hashes and verifies account passwords with bcrypt.
package password

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Prantik009/accusitions/internal/core/domain"
)

// DefaultCost matches the work factor the service has always used.
const DefaultCost = 10

// BcryptHasher implements ports.PasswordHasher.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given work factor. A cost of zero
// selects DefaultCost.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

type hashResult struct {
	hash []byte
	err  error
}

// Hash produces a salted bcrypt hash. bcrypt runs on its own goroutine so a
// cancelled request stops waiting for it.
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	done := make(chan hashResult, 1)
	go func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		done <- hashResult{hash: hash, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", domain.ErrHashing, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrHashing, res.err)
		}
		return string(res.hash), nil
	}
}

// Verify compares password against hash in constant time. A mismatch is
// reported as (false, nil); a malformed hash is an error.
func (h *BcryptHasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	done := make(chan error, 1)
	go func() {
		done <- bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	}()

	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%w: %w", domain.ErrHashing, ctx.Err())
	case err := <-done:
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, fmt.Errorf("%w: %w", domain.ErrHashing, err)
		}
	}
}

// NeedsRehash reports whether hash was produced with a lower work factor than
// the one currently configured. A hash bcrypt cannot parse also needs one.
func (h *BcryptHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost < h.cost
}
