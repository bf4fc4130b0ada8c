package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Prantik009/accusitions/internal/core/domain"
	"github.com/Prantik009/accusitions/internal/core/ports"
)

// AuthService implements registration and authentication.
type AuthService struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(repo ports.AccountRepository, hasher ports.PasswordHasher, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, log: log, now: time.Now}
}

// Register creates a new account. The lookup before hashing only avoids
// wasted bcrypt work; the repository's uniqueness constraint decides races.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.PublicAccount, error) {
	email := domain.NormalizeEmail(in.Email)
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		s.log.Info().Str("email", email).Msg("signup rejected: email already registered")
		return nil, domain.ErrAccountExists
	case err != nil && !errors.Is(err, domain.ErrAccountNotFound):
		return nil, fmt.Errorf("register: lookup account: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("password hashing failed")
		return nil, fmt.Errorf("register: %w", asHashingError(err))
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Account{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			s.log.Info().Str("email", email).Msg("signup lost insert race: email already registered")
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("register: create account: %w", err)
	}

	s.log.Info().Str("account_id", created.ID).Str("email", created.Email).Msg("account created")
	return created.Public(), nil
}

// Authenticate checks email and password. A hasher failure is returned as
// domain.ErrHashing and never reported as a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.PublicAccount, error) {
	email = domain.NormalizeEmail(email)

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.log.Info().Str("email", email).Msg("signin rejected: unknown email")
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("authenticate: lookup account: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, password, account.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Str("account_id", account.ID).Msg("password verification failed")
		return nil, fmt.Errorf("authenticate: %w", asHashingError(err))
	}
	if !ok {
		s.log.Info().Str("account_id", account.ID).Msg("signin rejected: wrong password")
		return nil, domain.ErrInvalidCredentials
	}
	if rc, ok := s.hasher.(rehashChecker); ok && rc.NeedsRehash(account.PasswordHash) {
		s.log.Info().Str("account_id", account.ID).Msg("password hash below configured cost")
	}

	s.log.Info().Str("account_id", account.ID).Str("email", account.Email).Msg("account authenticated")
	return account.Public(), nil
}

// rehashChecker is implemented by hashers that can tell when a stored hash
// was produced with an outdated work factor.
type rehashChecker interface {
	NeedsRehash(hash string) bool
}

func asHashingError(err error) error {
	if errors.Is(err, domain.ErrHashing) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrHashing, err)
}
