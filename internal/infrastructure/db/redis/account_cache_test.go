package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prantik009/accusitions/internal/core/domain"
	"github.com/Prantik009/accusitions/internal/infrastructure/db/memory"
)

type countingRepo struct {
	*memory.AccountRepository
	finds int
}

func (r *countingRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.finds++
	return r.AccountRepository.FindByEmail(ctx, email)
}

func newCache(t *testing.T) (*AccountCache, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &countingRepo{AccountRepository: memory.NewAccountRepository()}
	return NewAccountCache(repo, client, time.Minute, zerolog.Nop()), repo, mr
}

func TestAccountCache_CreatePrimesCache(t *testing.T) {
	cache, repo, mr := newCache(t)
	ctx := context.Background()

	created, err := cache.Create(ctx, &domain.Account{Name: "Ana", Email: "ana@x.com", PasswordHash: "h", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.True(t, mr.Exists("account:email:ana@x.com"))

	found, err := cache.FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "h", found.PasswordHash, "hash must survive the cache round-trip")
	assert.Equal(t, 0, repo.finds, "hit must not reach the store")
}

func TestAccountCache_MissReadsThroughAndCaches(t *testing.T) {
	cache, repo, mr := newCache(t)
	ctx := context.Background()

	_, err := repo.AccountRepository.Create(ctx, &domain.Account{Email: "bob@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = cache.FindByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	_, err = cache.FindByEmail(ctx, "bob@x.com")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.finds)
	ttl := mr.TTL("account:email:bob@x.com")
	assert.True(t, ttl > 0 && ttl <= time.Minute)
}

func TestAccountCache_NotFoundIsNotCached(t *testing.T) {
	cache, repo, mr := newCache(t)
	ctx := context.Background()

	_, err := cache.FindByEmail(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.False(t, mr.Exists("account:email:ghost@x.com"))

	_, err = cache.FindByEmail(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.Equal(t, 2, repo.finds)
}

func TestAccountCache_DuplicateCreatePassesThrough(t *testing.T) {
	cache, _, _ := newCache(t)
	ctx := context.Background()

	_, err := cache.Create(ctx, &domain.Account{Email: "ana@x.com"})
	require.NoError(t, err)
	_, err = cache.Create(ctx, &domain.Account{Email: "ana@x.com"})
	assert.ErrorIs(t, err, domain.ErrAccountExists)
}

func TestAccountCache_RedisDownFallsBackToStore(t *testing.T) {
	cache, repo, mr := newCache(t)
	ctx := context.Background()

	_, err := repo.AccountRepository.Create(ctx, &domain.Account{Email: "carol@x.com"})
	require.NoError(t, err)
	mr.Close()

	found, err := cache.FindByEmail(ctx, "carol@x.com")
	require.NoError(t, err)
	assert.Equal(t, "carol@x.com", found.Email)
	assert.Error(t, cache.Ping(ctx))
}

func TestAccountCache_CorruptEntryIsIgnored(t *testing.T) {
	cache, repo, mr := newCache(t)
	ctx := context.Background()

	_, err := repo.AccountRepository.Create(ctx, &domain.Account{Email: "dave@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	require.NoError(t, mr.Set("account:email:dave@x.com", "{not json"))

	found, err := cache.FindByEmail(ctx, "dave@x.com")
	require.NoError(t, err)
	assert.Equal(t, "h", found.PasswordHash)
	assert.Equal(t, 1, repo.finds)
}
