// Package matcher pairs statement debits with purchase vouchers.
//
// A voucher is a candidate for a debit when:
//   - it has not been claimed earlier in the same run
//   - its total equals |statement amount| exactly
//   - its date is within Config.ToleranceDays of the statement date
//
// Candidates are scored on date proximity plus a vendor-name bonus and the
// highest positive score wins. MatchAll assigns greedily in statement order:
// an earlier statement keeps a voucher a later one would have scored higher
// on. This is intentional; the assignment is not globally optimal.
//
// Example usage:
//
//	m := matcher.NewMatcher(matcher.DefaultConfig(), sink)
//	run := m.MatchAll(statements, vouchers)
//	for _, res := range run.Results {
//		...
//	}
package matcher

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cleared-dev/reconcile/internal/diag"
	"github.com/cleared-dev/reconcile/internal/model"
)

const (
	dayPoints          = 10
	vendorNameBonus    = 50
	vendorTokenBonus   = 10
	minVendorTokenRune = 3
)

// Matcher matches statement transactions with vouchers.
type Matcher struct {
	config Config
	sink   diag.Sink
}

// NewMatcher creates a matcher. A nil sink discards diagnostics.
func NewMatcher(config Config, sink diag.Sink) *Matcher {
	return &Matcher{config: config, sink: diag.OrDiscard(sink)}
}

// FindMatch returns the best unclaimed voucher for a debit transaction.
// Credits, zero amounts and unparsable statement dates never match.
// Ties on score go to the smaller date difference, then to the voucher
// that appears first in vouchers.
func (m *Matcher) FindMatch(tx model.StatementTransaction, vouchers []model.Voucher, consumed Consumed) (Candidate, bool) {
	if !tx.IsDebit() || len(vouchers) == 0 {
		return Candidate{}, false
	}

	txDate, err := model.ParseDate(tx.Date)
	if err != nil {
		diag.Warnf(m.sink, diag.StageMatch, tx.ID, "invalid statement date %q, not matching", tx.Date)
		return Candidate{}, false
	}

	amount := tx.Amount.Abs()
	desc := strings.ToLower(tx.Description)

	var best Candidate
	found := false
	for i, v := range vouchers {
		if consumed.Has(i) {
			continue
		}
		if !amount.Equal(v.TotalAmount) {
			continue
		}
		diff := dayDiff(txDate, v.TransactionDate)
		if diff > m.config.ToleranceDays {
			continue
		}

		score := (m.config.ToleranceDays-diff)*dayPoints + textScore(desc, v.VendorName)
		if score <= 0 {
			continue
		}

		if !found || score > best.Score || (score == best.Score && diff < best.DateDiff) {
			best = Candidate{Index: i, Score: score, DateDiff: diff}
			found = true
		}
	}
	return best, found
}

// MatchAll runs FindMatch for every statement in order with a fresh
// consumed set. The vouchers slice is not modified.
func (m *Matcher) MatchAll(statements []model.StatementTransaction, vouchers []model.Voucher) Run {
	run := Run{
		Results:  make([]Result, 0, len(statements)),
		Consumed: make(Consumed),
	}

	for _, tx := range statements {
		if !tx.IsDebit() {
			run.Results = append(run.Results, Result{
				Statement:    tx,
				VoucherIndex: -1,
				Status:       model.MatchIgnoredCreditOrZero,
			})
			continue
		}

		cand, ok := m.FindMatch(tx, vouchers, run.Consumed)
		if !ok {
			run.Results = append(run.Results, Result{
				Statement:    tx,
				VoucherIndex: -1,
				Status:       model.MatchUnmatched,
			})
			continue
		}

		run.Consumed[cand.Index] = true
		v := vouchers[cand.Index]
		run.Results = append(run.Results, Result{
			Statement:    tx,
			Voucher:      &v,
			VoucherIndex: cand.Index,
			Status:       model.MatchMatched,
			Score:        cand.Score,
		})
	}
	return run
}

// textScore awards the vendor-name bonus: 50 when the whole name appears in
// the description, otherwise 10 per name token of 3+ characters that does.
func textScore(lowerDesc, vendor string) int {
	vendor = strings.ToLower(vendor)
	if vendor == "" {
		return 0
	}
	if strings.Contains(lowerDesc, vendor) {
		return vendorNameBonus
	}
	score := 0
	for _, part := range strings.Fields(vendor) {
		if utf8.RuneCountInString(part) < minVendorTokenRune {
			continue
		}
		if strings.Contains(lowerDesc, part) {
			score += vendorTokenBonus
		}
	}
	return score
}

// dayDiff returns the absolute number of calendar days between a and b.
func dayDiff(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(da.Sub(db).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}
