package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

type rootOptions struct {
	envFile  string
	logLevel string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{envFile: ".env"}

	cmd := &cobra.Command{
		Use:           "hyprmaid",
		Short:         "Keeps a Discord server's channels in sync with a GitHub organization",
		Long:          "hyprmaid provisions a channel group, channels and a GitHub webhook for every repository of an organization that has none yet.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: serve
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", opts.envFile, "Path to an optional .env file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override LOG_LEVEL")

	cmd.AddCommand(newServeCmd(opts), newReconcileCmd(opts))

	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot, the reconciliation loop and the health server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func newReconcileCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Run a single reconciliation pass and print its report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcileOnce(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
}
