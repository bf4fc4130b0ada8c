package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Prantik009/accusitions/internal/core/domain"
	"github.com/Prantik009/accusitions/internal/core/ports"
)

const defaultCacheTTL = 10 * time.Minute

// AccountCache is a read-through cache in front of an AccountRepository.
// Accounts never change after creation, so a cached hit cannot go stale.
// Misses are not cached: a signup must be visible to the next signin.
// Redis failures degrade to the underlying repository.
//
// Key format: account:email:<email>
type AccountCache struct {
	next   ports.AccountRepository
	client redis.UniversalClient
	ttl    time.Duration
	log    zerolog.Logger
}

// NewAccountCache wraps next. A ttl <= 0 uses defaultCacheTTL.
func NewAccountCache(next ports.AccountRepository, client redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *AccountCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &AccountCache{next: next, client: client, ttl: ttl, log: log}
}

// cachedAccount keeps the password hash, which domain.Account hides from JSON.
type cachedAccount struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *AccountCache) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	raw, err := c.client.Get(ctx, c.key(email)).Bytes()
	switch {
	case err == nil:
		var ca cachedAccount
		if jsonErr := json.Unmarshal(raw, &ca); jsonErr == nil {
			return ca.toDomain(), nil
		}
		c.log.Warn().Str("email", email).Msg("discarding undecodable account cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Msg("account cache read failed, falling back to store")
	}

	account, err := c.next.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	c.store(ctx, account)
	return account, nil
}

// Create delegates to the underlying repository, which owns uniqueness, and
// primes the cache on success.
func (c *AccountCache) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	created, err := c.next.Create(ctx, account)
	if err != nil {
		return nil, err
	}
	c.store(ctx, created)
	return created, nil
}

// Ping checks Redis connectivity for the readiness probe.
func (c *AccountCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *AccountCache) store(ctx context.Context, a *domain.Account) {
	payload, err := json.Marshal(cachedAccount{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(a.Email), payload, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("account cache write failed")
	}
}

func (c *AccountCache) key(email string) string {
	return "account:email:" + email
}

func (ca cachedAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:           ca.ID,
		Name:         ca.Name,
		Email:        ca.Email,
		PasswordHash: ca.PasswordHash,
		Role:         ca.Role,
		CreatedAt:    ca.CreatedAt,
		UpdatedAt:    ca.UpdatedAt,
	}
}
