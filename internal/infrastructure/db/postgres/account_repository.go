package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/Prantik009/accusitions/internal/core/domain"
)

// pool is the subset of *pgxpool.Pool the repository needs.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// AccountRepository implements ports.AccountRepository on the accounts table.
// Email uniqueness is enforced by the accounts_email_unique index.
type AccountRepository struct {
	pool pool
}

func NewAccountRepository(p pool) *AccountRepository {
	return &AccountRepository{pool: p}
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM accounts WHERE email = $1
	`, email)

	var a domain.Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").With("email", email).Wrap(domain.ErrAccountNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_FAILED").With("email", email).Wrap(err)
	}
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	stored := *account
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, stored.ID, stored.Name, stored.Email, stored.PasswordHash, stored.Role, stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, oops.Code("ACCOUNT_EXISTS").With("email", stored.Email).Wrap(domain.ErrAccountExists)
		}
		return nil, oops.Code("ACCOUNT_CREATE_FAILED").With("email", stored.Email).Wrap(err)
	}
	return &stored, nil
}

func (r *AccountRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
