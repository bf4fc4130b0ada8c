package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Prantik009/accusitions/internal/api"
	"github.com/Prantik009/accusitions/internal/pkg/config"
	"github.com/Prantik009/accusitions/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server. Configuration is read from the environment;
SIGINT or SIGTERM triggers a graceful shutdown.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply pending Postgres migrations before serving")

	return cmd
}

func runServe(parent context.Context, autoMigrate bool) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "accusitions",
	})

	a, err := buildApp(ctx, cfg, log, autoMigrate)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialise dependencies")
		return err
	}

	auditCtx, stopAudit := context.WithCancel(context.Background())
	defer stopAudit()
	a.audit.Start(auditCtx)

	e := api.NewRouter(a.deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
			_ = a.close(context.Background())
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	stopAudit()
	if err := a.close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("closing dependencies")
	}

	log.Info().Msg("server stopped")
	return nil
}
