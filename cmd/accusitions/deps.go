package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/Prantik009/accusitions/internal/api"
	"github.com/Prantik009/accusitions/internal/api/cookie"
	"github.com/Prantik009/accusitions/internal/api/handler"
	"github.com/Prantik009/accusitions/internal/core/ports"
	"github.com/Prantik009/accusitions/internal/core/service"
	"github.com/Prantik009/accusitions/internal/infrastructure/db/memory"
	mongostore "github.com/Prantik009/accusitions/internal/infrastructure/db/mongo"
	pgstore "github.com/Prantik009/accusitions/internal/infrastructure/db/postgres"
	redisstore "github.com/Prantik009/accusitions/internal/infrastructure/db/redis"
	"github.com/Prantik009/accusitions/internal/infrastructure/queue"
	"github.com/Prantik009/accusitions/internal/pkg/config"
	"github.com/Prantik009/accusitions/internal/pkg/password"
	"github.com/Prantik009/accusitions/internal/pkg/token"
)

// accountStore is an AccountRepository the readiness probe can ping.
type accountStore interface {
	ports.AccountRepository
	handler.Pinger
}

// app is the wired service plus the functions that release its resources.
type app struct {
	deps    api.Deps
	audit   *queue.Dispatcher
	closers []func(context.Context) error
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	return errors.Join(errs...)
}

// buildApp connects the configured store, cache and audit sink and wires
// them into the HTTP layer. On error everything opened so far is closed.
func buildApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, autoMigrate bool) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			_ = a.close(context.Background())
		}
	}()

	readiness := map[string]handler.Pinger{}

	var (
		store     accountStore
		auditRepo ports.AuditRepository
	)
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := pgstore.Connect(ctx, pgstore.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { pool.Close(); return nil })
		if autoMigrate {
			if err := migrateUp(ctx, pool); err != nil {
				return nil, err
			}
		}
		store = pgstore.NewAccountRepository(pool)
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "accusitions",
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		store = mongostore.NewAccountRepository(db)
		auditRepo = mongostore.NewAuditRepository(db)
	default:
		log.Warn().Msg("using in-memory account store; accounts are lost on restart")
		store = memory.NewAccountRepository()
	}
	readiness[cfg.Store.Driver] = store

	var repo ports.AccountRepository = store
	if cfg.Redis.Enabled {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		cache := redisstore.NewAccountCache(store, client, cfg.Redis.CacheTTL, log)
		readiness["redis"] = cache
		repo = cache
	}

	hasher, err := password.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	tokens, err := token.NewManager(token.Config{
		Secret: []byte(cfg.Auth.JWTSecret),
		TTL:    cfg.Auth.JWTTTL,
		Issuer: cfg.Auth.JWTIssuer,
	})
	if err != nil {
		return nil, err
	}
	cookies := cookie.NewManager(cookie.Options{
		Secure: cfg.IsProduction(),
		MaxAge: tokens.TTL(),
	})

	a.audit = queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(auditRepo, log), log)
	authService := service.NewAuthService(repo, hasher, log)

	a.deps = api.Deps{
		Auth: handler.NewAuthHandler(authService, tokens, cookies, a.audit, log, handler.AuthOptions{
			CookieName:            cfg.Auth.CookieName,
			UnifyCredentialErrors: cfg.Auth.UnifyCredentialErrors,
		}),
		Health:     handler.NewHealthHandler(),
		Readiness:  handler.NewHealthDependenciesHandler(readiness),
		Tokens:     tokens,
		CookieName: cfg.Auth.CookieName,
		Log:        log,
	}

	log.Info().
		Str("store", cfg.Store.Driver).
		Bool("cache", cfg.Redis.Enabled).
		Int("bcrypt_cost", hasher.Cost()).
		Dur("token_ttl", tokens.TTL()).
		Msg("dependencies ready")
	return a, nil
}
