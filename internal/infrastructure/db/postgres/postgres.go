// Package postgres stores accounts in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/samber/oops"
)

const defaultTimeout = 10 * time.Second

//go:embed migrations/*.sql
var migrations embed.FS

// Config captures the settings for the connection pool.
type Config struct {
	DSN      string
	MaxConns int32
	Timeout  time.Duration
}

// Connect opens a pgx pool and verifies connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, oops.Code("POSTGRES_CONFIG_INVALID").Wrap(err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, oops.Code("POSTGRES_CONNECT_FAILED").Wrap(err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, oops.Code("POSTGRES_PING_FAILED").Wrap(err)
	}
	return pool, nil
}

// Migrator applies the embedded goose migrations.
type Migrator struct {
	db *sql.DB
}

// NewMigrator adapts pool to database/sql for goose. Close releases the
// adapter only; the pool stays open.
func NewMigrator(pool *pgxpool.Pool) (*Migrator, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, oops.Code("MIGRATION_INIT_FAILED").Wrap(err)
	}
	return &Migrator{db: stdlib.OpenDBFromPool(pool)}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db, "migrations"); err != nil {
		return oops.Code("MIGRATION_UP_FAILED").Wrap(err)
	}
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	if err := goose.DownContext(ctx, m.db, "migrations"); err != nil {
		return oops.Code("MIGRATION_DOWN_FAILED").Wrap(err)
	}
	return nil
}

// Version reports the current schema version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	v, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, oops.Code("MIGRATION_VERSION_FAILED").Wrap(err)
	}
	return v, nil
}

func (m *Migrator) Close() error {
	return m.db.Close()
}
