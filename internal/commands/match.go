package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/reconcile/internal/diag"
	"github.com/cleared-dev/reconcile/internal/logger"
	"github.com/cleared-dev/reconcile/internal/matcher"
	"github.com/cleared-dev/reconcile/internal/model"
)

func newMatchCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Show which voucher each statement transaction matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(opts.repo)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			opts.repo = absDir

			log := logger.FromContext(cmd.Context())
			p, err := loadProject(opts.repo)
			if err != nil {
				return err
			}

			sink := diag.LogSink{Logger: log}
			txns, _, err := p.loadStatements(opts.statements, opts.format, sink, log)
			if err != nil {
				return err
			}
			vouchers, err := p.loadVouchers(opts.simulate, sink)
			if err != nil {
				return err
			}

			m := matcher.NewMatcher(matcher.Config{ToleranceDays: p.cfg.Matching.ToleranceDays}, sink)
			run := m.MatchAll(txns, vouchers)
			return printMatches(cmd.OutOrStdout(), run, vouchers)
		},
	}

	cmd.Flags().StringVar(&opts.repo, "repo", ".", "project directory")
	cmd.Flags().StringVar(&opts.statements, "statements", "", "statement file or directory (default: paths.statements)")
	cmd.Flags().StringVar(&opts.format, "format", "", "statement format (standard, chase); detected from the header when empty")
	cmd.Flags().IntVar(&opts.simulate, "simulate-vouchers", 0, "simulate this many vouchers instead of reading paths.vouchers")

	return cmd
}

func printMatches(out io.Writer, run matcher.Run, vouchers []model.Voucher) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATEMENT\tDATE\tAMOUNT\tDESCRIPTION\tSTATUS\tVOUCHER\tSCORE")
	for _, res := range run.Results {
		tx := res.Statement
		voucherID, score := "-", "-"
		if res.Voucher != nil {
			voucherID = res.Voucher.ID
			score = fmt.Sprint(res.Score)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date, tx.Amount.StringFixed(2), tx.Description, res.Status, voucherID, score)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	unused := run.UnusedVouchers(vouchers)
	fmt.Fprintf(out, "\n%d matched, %d unmatched, %d ignored, %d vouchers unused\n",
		run.Count(model.MatchMatched), run.Count(model.MatchUnmatched),
		run.Count(model.MatchIgnoredCreditOrZero), len(unused))
	for _, v := range unused {
		fmt.Fprintf(out, "  unused: %s %s %s\n", v.ID, v.VendorName, v.TotalAmount.StringFixed(2))
	}
	return nil
}
