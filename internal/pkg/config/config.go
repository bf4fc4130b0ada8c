package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"

	minSecretLen = 32
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Audit    AuditConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	JWTTTL     time.Duration `env:"JWT_TTL,     default=24h"`
	JWTIssuer  string        `env:"JWT_ISSUER,  default=accusitions"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
	CookieName string        `env:"COOKIE_NAME, default=token"`
	// UnifyCredentialErrors answers unknown emails with 401 instead of 404.
	UnifyCredentialErrors bool `env:"AUTH_UNIFY_CREDENTIAL_ERRORS, default=false"`
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=postgres"`
}

type PostgresConfig struct {
	DSN string `env:"DATABASE_URL"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=accusitions"`
}

type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED,     default=false"`
	Addr     string        `env:"REDIS_ADDR,        default=localhost:6379"`
	Username string        `env:"REDIS_USERNAME"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,          default=0"`
	TLS      bool          `env:"REDIS_TLS,         default=false"`
	CacheTTL time.Duration `env:"ACCOUNT_CACHE_TTL, default=10m"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig
// and validates it.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadPostgres reads only the Postgres settings, for commands that do not
// serve traffic.
func LoadPostgres(ctx context.Context) (*PostgresConfig, error) {
	return loadPostgres(ctx, envconfig.OsLookuper())
}

func loadPostgres(ctx context.Context, lookuper envconfig.Lookuper) (*PostgresConfig, error) {
	var cfg PostgresConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.DSN == "" {
		return nil, errors.New("config: DATABASE_URL is required")
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Auth.JWTSecret) < minSecretLen {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLen))
	}
	if c.Auth.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.Auth.CookieName == "" {
		errs = append(errs, errors.New("COOKIE_NAME must not be empty"))
	}

	switch c.Store.Driver {
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			errs = append(errs, errors.New("MONGO_URI and MONGO_DB are required for the mongo driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	if c.Audit.Workers < 1 {
		errs = append(errs, errors.New("AUDIT_WORKERS must be at least 1"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
