package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prantik009/accusitions/internal/core/domain"
)

func TestAccountRepository_CreateAndFind(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Account{Name: "Ana", Email: "ana@x.com", PasswordHash: "h", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	found, err := repo.FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "h", found.PasswordHash)
}

func TestAccountRepository_FindMissing(t *testing.T) {
	repo := NewAccountRepository()
	_, err := repo.FindByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()
	created, err := repo.Create(ctx, &domain.Account{Email: "ana@x.com", Role: domain.RoleUser})
	require.NoError(t, err)

	created.Role = domain.RoleAdmin
	found, err := repo.FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, found.Role)
}

func TestAccountRepository_ConcurrentCreateSingleWinner(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	const n = 16
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		wins  int
		dupes int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, &domain.Account{Email: "race@x.com"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, domain.ErrAccountExists):
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, n-1, dupes)
}
