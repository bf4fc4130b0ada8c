package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	pgstore "github.com/Prantik009/accusitions/internal/infrastructure/db/postgres"
	"github.com/Prantik009/accusitions/internal/pkg/config"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Manage the Postgres schema",
		Long:      `Apply, roll back or report the Postgres schema migrations. Defaults to "up".`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE:      runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	action := "up"
	if len(args) == 1 {
		action = args[0]
	}

	ctx := cmd.Context()

	pgCfg, err := config.LoadPostgres(ctx)
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	cmd.Println("Connecting to database...")
	pool, err := pgstore.Connect(ctx, pgstore.Config{DSN: pgCfg.DSN})
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	migrator, err := pgstore.NewMigrator(pool)
	if err != nil {
		return err
	}
	defer migrator.Close()

	switch action {
	case "down":
		cmd.Println("Rolling back last migration...")
		if err := migrator.Down(ctx); err != nil {
			return err
		}
	case "version":
	default:
		cmd.Println("Running migrations...")
		if err := migrator.Up(ctx); err != nil {
			return err
		}
	}

	version, err := migrator.Version(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Schema version: %d\n", version)
	return nil
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := pgstore.NewMigrator(pool)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Up(ctx)
}
