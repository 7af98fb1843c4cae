// Package cli implements the finder command line tool.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/supplierlens/backend/internal/version"
)

// NewRootCmd builds the finder command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "finder",
		Short:         "Find cheaper suppliers for a product",
		Long:          "finder runs a supplier search against the configured marketplaces and manages the local listing catalog.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newCatalogCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "finder %s (%s)\n", version.Version, version.Service)
		},
	}
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		cancel()
		os.Exit(1)
	}
}
