package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/reconcile/internal/config"
	"github.com/cleared-dev/reconcile/internal/diag"
	"github.com/cleared-dev/reconcile/internal/journal"
	"github.com/cleared-dev/reconcile/internal/logger"
	"github.com/cleared-dev/reconcile/internal/trialbalance"
)

func newTrialBalanceCommand() *cobra.Command {
	var (
		repo   string
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Summarize the last run's journal entries per account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repo)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runTrialBalance(cmd, absDir, format, out)
		},
	}

	cmd.Flags().StringVar(&repo, "repo", ".", "project directory")
	cmd.Flags().StringVar(&format, "format", "csv", "output format (csv, xlsx, pdf)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to this file instead of stdout (required for xlsx and pdf)")

	return cmd
}

func runTrialBalance(cmd *cobra.Command, root, format, out string) error {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return err
	}

	store := journal.NewStore(config.Resolve(root, cfg.Paths.Output))
	entries, err := store.LoadJSON()
	if err != nil {
		return err
	}
	if entries == nil {
		return fmt.Errorf("no journal entries at %s, run 'reconcile run' first", store.JSONPath())
	}

	report := trialbalance.Build(entries, diag.LogSink{Logger: logger.FromContext(cmd.Context())})

	var data []byte
	switch format {
	case "csv":
		if out == "" {
			return trialbalance.WriteCSV(cmd.OutOrStdout(), report)
		}
		return writeTo(out, func(w io.Writer) error { return trialbalance.WriteCSV(w, report) })
	case "xlsx":
		data, err = trialbalance.BuildXLSX(report)
	case "pdf":
		data, err = trialbalance.BuildPDF(cfg.Business.Name, report)
	default:
		return fmt.Errorf("unknown format %q (want csv, xlsx or pdf)", format)
	}
	if err != nil {
		return err
	}
	if out == "" {
		return fmt.Errorf("--output is required for %s", format)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	return nil
}

func writeTo(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
