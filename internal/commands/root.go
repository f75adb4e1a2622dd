package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/reconcile/internal/buildinfo"
	"github.com/cleared-dev/reconcile/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:     "reconcile",
		Short:   "Reconcile bank statements against vouchers and draft journal entries",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log := logger.New(logLevel)
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newMatchCommand())
	rootCmd.AddCommand(newTrialBalanceCommand())

	return rootCmd
}
