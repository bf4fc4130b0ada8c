// Package token issues and verifies the signed session tokens stored in the
// session cookie.
//
// A Manager is immutable. The signing secret is injected at construction and
// rotating it means building a new Manager with WithSecret: every token signed
// with the previous secret then fails verification with domain.ErrTokenInvalid.
// There is no revocation list, so rotation is the only way to end all sessions.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Prantik009/accusitions/internal/core/domain"
)

const defaultTTL = 24 * time.Hour

// Config holds the token settings loaded once at startup.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// Claims are the identity facts carried by a session token.
type Claims struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Manager{secret: secret, ttl: ttl, issuer: cfg.Issuer, now: now}, nil
}

// WithSecret returns a copy of m signing with secret. Tokens issued by m are
// not accepted by the returned Manager.
func (m *Manager) WithSecret(secret []byte) (*Manager, error) {
	return NewManager(Config{Secret: secret, TTL: m.ttl, Issuer: m.issuer, Now: m.now})
}

// TTL is the lifetime of issued tokens; the session cookie max-age follows it.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for the given identity and returns it with its expiry.
func (m *Manager) Issue(accountID, email, role string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := Claims{
		AccountID: accountID,
		Email:     email,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm, issuer and expiry. The returned error
// wraps one of domain.ErrTokenMalformed, domain.ErrTokenExpired or
// domain.ErrTokenInvalid.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	tkn, err := jwt.NewParser(opts...).ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", domain.ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", domain.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}
}
