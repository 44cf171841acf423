package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tramnet.mpk.org/internal/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tramnet",
		Short: "A distributed tram network",
		Long: `tramnet runs a tram network across processes: a server hosting the
registry, lines and stops, trams that run a line's schedule, and clients
that subscribe to stops and trams and print what they are told.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("env", "development", "Environment (development|test|production)")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")

	root.AddCommand(newServerCmd(), newTramCmd(), newClientCmd(), newExportCmd())
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loggerFor(cmd *cobra.Command) *slog.Logger {
	env, _ := cmd.Flags().GetString("env")
	return logging.NewLogger(cmd.ErrOrStderr(), env)
}

func colorEnabled(cmd *cobra.Command) bool {
	noColor, _ := cmd.Flags().GetBool("no-color")
	return !noColor
}
