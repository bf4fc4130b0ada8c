package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the accusitions CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accusitions",
		Short: "Accusitions account and session service",
		Long: `Accusitions issues credentials: it registers accounts, verifies
passwords and keeps sessions in a signed token cookie.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
