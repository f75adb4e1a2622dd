package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/model"
)

// Severity separates findings that make an entry unusable from advisory ones.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	Severity    Severity
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.EntryID, e.Description)
}

// AccountChecker tests whether an account name exists in the chart of accounts.
type AccountChecker interface {
	Exists(name string) bool
}

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// ValidateEntries checks generated entries against the double-entry invariants.
// accounts may be nil, in which case account references are not checked.
func ValidateEntries(entries []model.JournalEntry, accounts AccountChecker) []ValidationError {
	var errs []ValidationError
	add := func(inv int, sev Severity, entryID, format string, args ...any) {
		errs = append(errs, ValidationError{
			Invariant:   inv,
			Severity:    sev,
			EntryID:     entryID,
			Description: fmt.Sprintf(format, args...),
		})
	}

	seen := make(map[string]bool)
	for _, e := range entries {
		// Invariant 5: Unique entry IDs.
		if seen[e.ID] {
			add(5, SeverityError, e.ID, "duplicate entry ID")
		}
		seen[e.ID] = true

		// Invariant 4: Exactly two postings.
		if len(e.Postings) != 2 {
			add(4, SeverityError, e.ID, "expected 2 postings, got %d", len(e.Postings))
		}

		// Invariant 1: Debits equal credits.
		if !e.Balanced() {
			add(1, SeverityError, e.ID, "debits (%s) != credits (%s)",
				e.TotalDebit().StringFixed(2), e.TotalCredit().StringFixed(2))
		}

		// Invariant 8: Confidence within [0, 1].
		if e.Confidence.IsNegative() || e.Confidence.GreaterThan(one) {
			add(8, SeverityError, e.ID, "confidence %s outside [0, 1]", e.Confidence)
		}

		for _, p := range e.Postings {
			// Invariant 2: Exactly one of debit/credit per posting.
			if p.Debit.IsZero() == p.Credit.IsZero() {
				add(2, SeverityError, e.ID, "posting to %q must have exactly one of debit or credit", p.Account)
			}

			// Invariant 7: Amounts are never negative.
			if p.Debit.IsNegative() || p.Credit.IsNegative() {
				add(7, SeverityError, e.ID, "posting to %q has a negative amount", p.Account)
			}

			// Invariant 6: No more than 2 decimal places.
			for _, amt := range []decimal.Decimal{p.Debit, p.Credit} {
				if !amt.Mul(hundred).Equal(amt.Mul(hundred).Truncate(0)) {
					add(6, SeverityError, e.ID, "amount %s has more than 2 decimal places", amt)
				}
			}

			// Invariant 3: Known accounts. Advisory only: the ledger still
			// accepts postings to accounts missing from the config.
			if accounts != nil && !accounts.Exists(p.Account) {
				add(3, SeverityWarning, e.ID, "unknown account %q", p.Account)
			}
		}
	}
	return errs
}

// Fatal returns the findings with SeverityError.
func Fatal(errs []ValidationError) []ValidationError {
	var out []ValidationError
	for _, e := range errs {
		if e.Severity == SeverityError {
			out = append(out, e)
		}
	}
	return out
}
