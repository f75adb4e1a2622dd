package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/id"
)

// MatchStatus is the matcher's verdict for one statement transaction.
type MatchStatus string

const (
	MatchMatched             MatchStatus = "matched"
	MatchUnmatched           MatchStatus = "unmatched"
	MatchIgnoredCreditOrZero MatchStatus = "ignored_credit_or_zero"
)

// EntryStatus classifies a generated journal entry for review triage.
type EntryStatus string

const (
	StatusAutoHighConfidence       EntryStatus = "auto_generated_high_confidence"
	StatusReviewMatchedNoRule      EntryStatus = "needs_review_matched_no_rule"
	StatusReviewUnmatchedDebit     EntryStatus = "needs_review_unmatched_debit"
	StatusAutoIncomeHighConfidence EntryStatus = "auto_generated_income_high_confidence"
	StatusReviewUnmatchedCredit    EntryStatus = "needs_review_unmatched_credit"
)

// NeedsReview reports whether a human should look at entries with this status.
func (s EntryStatus) NeedsReview() bool {
	return strings.HasPrefix(string(s), "needs_review")
}

// Posting is one leg of a double-entry journal entry.
// Exactly one of Debit/Credit is non-zero.
type Posting struct {
	Account string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// JournalEntry is a two-legged entry produced by the journal builder.
type JournalEntry struct {
	ID                string
	Date              time.Time
	Description       string
	Postings          []Posting
	Status            EntryStatus
	Confidence        decimal.Decimal
	SourceStatementID string
	SourceVoucherID   string // empty when no voucher
	Notes             string
}

// TotalDebit sums the debit side of the entry.
func (e JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, p := range e.Postings {
		total = total.Add(p.Debit)
	}
	return total
}

// TotalCredit sums the credit side of the entry.
func (e JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, p := range e.Postings {
		total = total.Add(p.Credit)
	}
	return total
}

// Balanced reports whether debits equal credits.
func (e JournalEntry) Balanced() bool {
	return e.TotalDebit().Equal(e.TotalCredit())
}

// Leg is a single row in journal.csv (one posting of an entry, flattened).
type Leg struct {
	EntryID           string // entry ID + leg suffix: "stmt_1a", "je_gen_3b"
	Date              time.Time
	Account           string
	Description       string
	Debit             decimal.Decimal
	Credit            decimal.Decimal
	Confidence        decimal.Decimal
	Status            EntryStatus
	SourceStatementID string
	SourceVoucherID   string
	Notes             string
}

// EntryGroup returns the base entry ID (without leg suffix).
// "stmt_1a" -> "stmt_1"
func (l Leg) EntryGroup() string {
	return id.EntryGroup(l.EntryID)
}
