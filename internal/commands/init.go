package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/reconcile/internal/accounts"
	"github.com/cleared-dev/reconcile/internal/config"
	"github.com/cleared-dev/reconcile/internal/gitops"
	"github.com/cleared-dev/reconcile/internal/rules"
)

func newInitCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new reconciliation project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// gitignore keeps binary exports and scrape-only metrics out of history.
const gitignore = "output/*.xlsx\noutput/*.pdf\noutput/metrics.prom\n"

func runInit(out io.Writer, dir, name string) error {
	cfg := config.Default(name)

	dirs := []string{
		"config",
		cfg.Paths.Statements,
		cfg.Paths.Vouchers,
		cfg.Paths.Output,
		"logs",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	svc := accounts.NewService(accounts.DefaultChart())
	if err := svc.Save(filepath.Join(dir, cfg.Paths.Accounts)); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}

	if err := rules.Save(filepath.Join(dir, cfg.Paths.Rules), rules.Defaults()); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	for _, d := range []string{cfg.Paths.Statements, cfg.Paths.Vouchers, cfg.Paths.Output} {
		if err := os.WriteFile(filepath.Join(dir, d, ".gitkeep"), []byte{}, 0o644); err != nil {
			return fmt.Errorf("writing .gitkeep: %w", err)
		}
	}

	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}

	hash, err := gitops.CommitAll(dir, "init: Initialize "+name, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized reconcile project at %s (%s)\n", dir, hash)
	return nil
}
