// Package trialbalance sums journal postings per account.
package trialbalance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/diag"
	"github.com/cleared-dev/reconcile/internal/model"
)

// Line is one account's totals.
type Line struct {
	Account string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// Report is a trial balance, lines sorted by account name.
type Report struct {
	Lines       []Line
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Unbalanced  []string // IDs of entries whose own legs do not balance
}

// Balanced reports whether grand total debits equal credits.
func (r Report) Balanced() bool {
	return r.TotalDebit.Equal(r.TotalCredit)
}

// Difference returns total debits minus total credits.
func (r Report) Difference() decimal.Decimal {
	return r.TotalDebit.Sub(r.TotalCredit)
}

// Build aggregates entries. Postings without an account are skipped and
// unbalanced entries are still counted; both are reported to sink.
func Build(entries []model.JournalEntry, sink diag.Sink) Report {
	sink = diag.OrDiscard(sink)

	if len(entries) == 0 {
		diag.Infof(sink, diag.StageBalance, "", "no journal entries, trial balance is empty")
	}

	totals := make(map[string]*Line)
	var report Report
	for _, e := range entries {
		if len(e.Postings) == 0 {
			diag.Warnf(sink, diag.StageBalance, e.ID, "entry has no postings, skipping")
			continue
		}

		var valid []model.Posting
		debit, credit := decimal.Zero, decimal.Zero
		for i, p := range e.Postings {
			if p.Account == "" {
				diag.Warnf(sink, diag.StageBalance, e.ID, "posting %d has no account name, skipping posting", i+1)
				continue
			}
			valid = append(valid, p)
			debit = debit.Add(p.Debit)
			credit = credit.Add(p.Credit)
		}

		if !debit.Equal(credit) {
			report.Unbalanced = append(report.Unbalanced, e.ID)
			diag.Warnf(sink, diag.StageBalance, e.ID, "entry %q is unbalanced: debits %s, credits %s",
				e.Description, debit.StringFixed(2), credit.StringFixed(2))
		}

		for _, p := range valid {
			line, ok := totals[p.Account]
			if !ok {
				line = &Line{Account: p.Account}
				totals[p.Account] = line
			}
			line.Debit = line.Debit.Add(p.Debit)
			line.Credit = line.Credit.Add(p.Credit)
		}
	}

	for _, line := range totals {
		report.Lines = append(report.Lines, *line)
		report.TotalDebit = report.TotalDebit.Add(line.Debit)
		report.TotalCredit = report.TotalCredit.Add(line.Credit)
	}
	sort.Slice(report.Lines, func(i, j int) bool {
		return report.Lines[i].Account < report.Lines[j].Account
	})

	if !report.Balanced() {
		diag.Warnf(sink, diag.StageBalance, "", "trial balance is unbalanced: debits %s, credits %s",
			report.TotalDebit.StringFixed(2), report.TotalCredit.StringFixed(2))
	}
	return report
}
