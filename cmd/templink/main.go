package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/templink/internal/interfaces/cli/migrate"
	"github.com/orris-inc/templink/internal/interfaces/cli/server"
	"github.com/orris-inc/templink/internal/interfaces/cli/snapshot"
	"github.com/orris-inc/templink/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "templink",
		Short:   "templink - self-expiring temporary links",
		Long:    `templink serves unguessable, self-expiring links that redirect, run a callback or fall through to a handler, optionally only once.`,
		Version: version.String(),
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		snapshot.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
