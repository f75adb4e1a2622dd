package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/reconcile/internal/diag"
	"github.com/cleared-dev/reconcile/internal/gitops"
	"github.com/cleared-dev/reconcile/internal/importer"
	"github.com/cleared-dev/reconcile/internal/journal"
	"github.com/cleared-dev/reconcile/internal/logger"
	"github.com/cleared-dev/reconcile/internal/matcher"
	"github.com/cleared-dev/reconcile/internal/metrics"
	"github.com/cleared-dev/reconcile/internal/model"
	"github.com/cleared-dev/reconcile/internal/runlog"
	"github.com/cleared-dev/reconcile/internal/trialbalance"
)

// Output file names under paths.output.
const (
	trialBalanceCSV  = "trial_balance.csv"
	trialBalanceXLSX = "trial_balance.xlsx"
	trialBalancePDF  = "trial_balance.pdf"
	metricsFile      = "metrics.prom"
)

type runOptions struct {
	repo       string
	statements string
	format     string
	simulate   int
	dryRun     bool
	archive    bool

	// logLevelSet is true when --log-level was given explicitly, which
	// takes precedence over logging.level in reconcile.yaml.
	logLevelSet bool
}

func newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Match statements to vouchers and generate journal entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(opts.repo)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			opts.repo = absDir
			if f := cmd.Flag("log-level"); f != nil {
				opts.logLevelSet = f.Changed
			}
			return runReconcile(cmd.OutOrStdout(), logger.FromContext(cmd.Context()), opts)
		},
	}

	cmd.Flags().StringVar(&opts.repo, "repo", ".", "project directory")
	cmd.Flags().StringVar(&opts.statements, "statements", "", "statement file or directory (default: paths.statements)")
	cmd.Flags().StringVar(&opts.format, "format", "", "statement format (standard, chase); detected from the header when empty")
	cmd.Flags().IntVar(&opts.simulate, "simulate-vouchers", 0, "simulate this many vouchers instead of reading paths.vouchers")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report results without writing outputs or committing")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "move parsed statement files into processed/")

	return cmd
}

// runSummary is what one reconciliation produced.
type runSummary struct {
	runID      string
	statements int
	match      matcher.Run
	entries    []model.JournalEntry
	report     trialbalance.Report
	findings   []journal.ValidationError
	events     []diag.Event
	written    []string
	commit     string
}

func runReconcile(out io.Writer, log zerolog.Logger, opts runOptions) error {
	sum, err := reconcile(log, opts)
	if err != nil {
		return err
	}
	printSummary(out, sum, opts.dryRun)
	return nil
}

func reconcile(log zerolog.Logger, opts runOptions) (*runSummary, error) {
	start := time.Now()

	p, err := loadProject(opts.repo)
	if err != nil {
		return nil, err
	}
	if !opts.logLevelSet && p.cfg.Logging.Level != "" {
		log = log.Level(logger.ParseLevel(p.cfg.Logging.Level))
	}

	sum := &runSummary{runID: uuid.NewString()}
	log = log.With().Str("run_id", sum.runID).Logger()

	rec := &diag.Recorder{}
	m := metrics.New()
	sink := diag.Multi{rec, diag.LogSink{Logger: log}, m}

	txns, files, err := p.loadStatements(opts.statements, opts.format, sink, log)
	if err != nil {
		return nil, err
	}
	sum.statements = len(txns)
	if len(txns) == 0 {
		log.Warn().Msg("no statement transactions found")
	}

	vouchers, err := p.loadVouchers(opts.simulate, sink)
	if err != nil {
		return nil, err
	}
	if len(vouchers) == 0 {
		log.Warn().Msg("no vouchers loaded, every debit will be unmatched")
	}

	mt := matcher.NewMatcher(matcher.Config{ToleranceDays: p.cfg.Matching.ToleranceDays}, sink)
	sum.match = mt.MatchAll(txns, vouchers)
	for _, res := range sum.match.Results {
		m.ObserveMatch(res.Status)
	}

	bank := p.bankAccount()
	log.Info().Str("bank_account", bank).Msg("using bank account")

	builder := journal.NewBuilder(
		journal.WithBankAccount(bank),
		journal.WithSuspenseAccount(p.cfg.Ledger.SuspenseAccount),
		journal.WithSink(sink),
	)
	sum.entries = builder.Generate(sum.match.Results, p.accounts, p.rules)
	m.ObserveEntries(sum.entries)

	sum.findings = journal.ValidateEntries(sum.entries, p.accounts)
	for _, f := range sum.findings {
		log.Warn().Str("entry_id", f.EntryID).Str("severity", string(f.Severity)).Msg(f.Error())
	}

	sum.report = trialbalance.Build(sum.entries, sink)
	m.SetTrialBalanceDifference(sum.report.Difference().InexactFloat64())
	m.ObserveDuration(time.Since(start))
	sum.events = rec.Events()

	if opts.dryRun {
		return sum, nil
	}

	if sum.written, err = writeOutputs(p, sum, m); err != nil {
		return nil, err
	}

	if err := runlog.Append(p.root, runlog.FromEvents(sum.runID, start.UTC(), sum.events)); err != nil {
		log.Warn().Err(err).Msg("failed to write run log")
	}

	if opts.archive {
		for _, f := range files {
			if err := importer.MarkProcessed(f.dir, f.name); err != nil {
				return nil, err
			}
		}
	}

	if p.cfg.Git.AutoCommit && gitops.IsRepo(p.root) {
		msg := fmt.Sprintf("reconcile: %d entries, %d need review", len(sum.entries), needsReview(sum.entries))
		hash, err := gitops.CommitAll(p.root, msg, p.cfg.Git.AuthorName, p.cfg.Git.AuthorEmail)
		if err != nil {
			return nil, fmt.Errorf("committing results: %w", err)
		}
		sum.commit = hash
		log.Info().Str("commit", hash).Msg("committed results")
	}

	return sum, nil
}

func writeOutputs(p *project, sum *runSummary, m *metrics.Recorder) ([]string, error) {
	outDir := p.path(p.cfg.Paths.Output)
	store := journal.NewStore(outDir)
	var written []string

	if p.cfg.Output.JournalJSON {
		if err := store.SaveJSON(sum.entries); err != nil {
			return nil, err
		}
		written = append(written, store.JSONPath())
	}
	if p.cfg.Output.JournalCSV {
		if err := store.SaveCSV(sum.entries); err != nil {
			return nil, err
		}
		written = append(written, store.CSVPath())
	}

	if p.cfg.Output.TrialBalanceCSV {
		var buf bytes.Buffer
		if err := trialbalance.WriteCSV(&buf, sum.report); err != nil {
			return nil, err
		}
		path, err := writeFile(outDir, trialBalanceCSV, buf.Bytes())
		if err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	if p.cfg.Output.TrialBalanceXLSX {
		data, err := trialbalance.BuildXLSX(sum.report)
		if err != nil {
			return nil, err
		}
		path, err := writeFile(outDir, trialBalanceXLSX, data)
		if err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	if p.cfg.Output.TrialBalancePDF {
		data, err := trialbalance.BuildPDF(p.cfg.Business.Name, sum.report)
		if err != nil {
			return nil, err
		}
		path, err := writeFile(outDir, trialBalancePDF, data)
		if err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	if p.cfg.Output.Metrics {
		path := filepath.Join(outDir, metricsFile)
		if err := m.WriteTextfile(path); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

func printSummary(out io.Writer, sum *runSummary, dryRun bool) {
	fmt.Fprintf(out, "Statements: %d (%d matched, %d unmatched, %d ignored)\n",
		sum.statements,
		sum.match.Count(model.MatchMatched),
		sum.match.Count(model.MatchUnmatched),
		sum.match.Count(model.MatchIgnoredCreditOrZero))
	fmt.Fprintf(out, "Journal entries: %d (%d need review)\n", len(sum.entries), needsReview(sum.entries))

	if sum.report.Balanced() {
		fmt.Fprintf(out, "Trial balance: balanced at %s\n", sum.report.TotalDebit.StringFixed(2))
	} else {
		fmt.Fprintf(out, "Trial balance: UNBALANCED (debits %s, credits %s)\n",
			sum.report.TotalDebit.StringFixed(2), sum.report.TotalCredit.StringFixed(2))
	}

	warnings := 0
	for _, e := range sum.events {
		if e.Level == diag.LevelWarn {
			warnings++
		}
	}
	fmt.Fprintf(out, "Warnings: %d\n", warnings)

	if dryRun {
		fmt.Fprintln(out, "Dry run: nothing written")
		return
	}
	for _, w := range sum.written {
		fmt.Fprintf(out, "Wrote %s\n", w)
	}
	if sum.commit != "" {
		fmt.Fprintf(out, "Committed %s\n", sum.commit)
	}
}

func needsReview(entries []model.JournalEntry) int {
	n := 0
	for _, e := range entries {
		if e.Status.NeedsReview() {
			n++
		}
	}
	return n
}
