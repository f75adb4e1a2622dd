// Package journal turns matcher output into double-entry journal entries and
// reads and writes them.
package journal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/accounts"
	"github.com/cleared-dev/reconcile/internal/diag"
	"github.com/cleared-dev/reconcile/internal/id"
	"github.com/cleared-dev/reconcile/internal/matcher"
	"github.com/cleared-dev/reconcile/internal/model"
	"github.com/cleared-dev/reconcile/internal/rules"
)

// Account names used when the caller configures none.
const (
	DefaultBankAccount     = "Checking Account"
	DefaultSuspenseAccount = "Suspense"
)

const (
	noteMatchedNoRule   = "Voucher matched to statement, but no specific rule found for GL account."
	noteUnmatchedDebit  = "Statement debit transaction with no matching voucher."
	noteUnmatchedCredit = "Statement credit transaction with no specific rule for GL account."
)

var (
	confidenceMatchedRule    = decimal.RequireFromString("0.9")
	confidenceMatchedNoRule  = decimal.RequireFromString("0.6")
	confidenceUnmatchedDebit = decimal.RequireFromString("0.3")
	confidenceIncomeRule     = decimal.RequireFromString("0.8")
	confidenceIncomeNoRule   = decimal.RequireFromString("0.5")
)

// Builder generates journal entries from match results.
type Builder struct {
	bankAccount     string
	suspenseAccount string
	sink            diag.Sink
}

// Option configures a Builder.
type Option func(*Builder)

// WithBankAccount sets the configured bank account name.
func WithBankAccount(name string) Option {
	return func(b *Builder) { b.bankAccount = name }
}

// WithSuspenseAccount sets the fallback account for unclassified amounts.
func WithSuspenseAccount(name string) Option {
	return func(b *Builder) { b.suspenseAccount = name }
}

// WithSink sets the diagnostics sink.
func WithSink(s diag.Sink) Option {
	return func(b *Builder) { b.sink = s }
}

// NewBuilder creates a Builder with the default bank and suspense accounts.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		bankAccount:     DefaultBankAccount,
		suspenseAccount: DefaultSuspenseAccount,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.sink = diag.OrDiscard(b.sink)
	return b
}

// Generate produces one entry per usable match result, in input order.
//
// Items are dropped, never errored, when the statement is absent, its date
// is missing or not YYYY-MM-DD, its amount is zero, or the matcher status and
// amount sign do not describe a postable transaction.
func (b *Builder) Generate(results []matcher.Result, accts *accounts.Service, rs []model.Rule) []model.JournalEntry {
	bank := b.resolveBank(accts)

	taken := make(map[string]bool, len(results))
	for _, res := range results {
		if res.Statement.ID != "" {
			taken[res.Statement.ID] = true
		}
	}

	var entries []model.JournalEntry
	for i, res := range results {
		entry, ok := b.build(i, res, bank, rs, taken)
		if ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func (b *Builder) resolveBank(accts *accounts.Service) string {
	if accts == nil {
		diag.Warnf(b.sink, diag.StageJournal, "", "no chart of accounts supplied, using bank account %q as given", b.bankAccount)
		return b.bankAccount
	}
	if acct, ok := accts.Get(b.bankAccount); ok {
		return acct.Name
	}
	diag.Warnf(b.sink, diag.StageJournal, "", "bank account %q not found in accounts config, using name as given", b.bankAccount)
	return b.bankAccount
}

// fallbackID returns the positional fallback ID for item i, suffixed with
// "_1", "_2", ... while it collides with an ID already in the batch.
func fallbackID(i int, taken map[string]bool) string {
	base := id.FallbackEntryID(i + 1)
	candidate := base
	for n := 1; taken[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
	taken[candidate] = true
	return candidate
}

func (b *Builder) build(i int, res matcher.Result, bank string, rs []model.Rule, taken map[string]bool) (model.JournalEntry, bool) {
	tx := res.Statement
	if tx.IsZero() {
		diag.Infof(b.sink, diag.StageJournal, id.FallbackEntryID(i+1), "missing statement record, skipping")
		return model.JournalEntry{}, false
	}

	entryID := tx.ID
	if entryID == "" {
		entryID = fallbackID(i, taken)
	}

	if tx.Date == "" {
		diag.Warnf(b.sink, diag.StageJournal, entryID, "missing statement date, skipping")
		return model.JournalEntry{}, false
	}
	date, err := model.ParseDate(tx.Date)
	if err != nil {
		diag.Warnf(b.sink, diag.StageJournal, entryID, "invalid statement date %q, skipping", tx.Date)
		return model.JournalEntry{}, false
	}

	if tx.Amount.IsZero() {
		return model.JournalEntry{}, false
	}

	entry := model.JournalEntry{
		ID:                entryID,
		Date:              date,
		Description:       describe(tx.Description, res.Voucher),
		SourceStatementID: tx.ID,
	}
	if res.Voucher != nil {
		entry.SourceVoucherID = res.Voucher.ID
	}

	amount := tx.Amount.Abs()
	switch {
	case res.Status == model.MatchMatched && res.Voucher != nil:
		v := res.Voucher
		text := v.RawText
		if text == "" {
			text = v.VendorName
		}
		if rule, ok := rules.Apply(text, v.TotalAmount, rs); ok && rule.Account != "" {
			entry.Status = model.StatusAutoHighConfidence
			entry.Confidence = confidenceMatchedRule
			entry.Postings = twoLegs(rule.Account, bank, amount)
		} else {
			entry.Status = model.StatusReviewMatchedNoRule
			entry.Confidence = confidenceMatchedNoRule
			entry.Notes = noteMatchedNoRule
			entry.Postings = twoLegs(b.suspenseAccount, bank, amount)
		}

	case res.Status == model.MatchUnmatched && tx.Amount.IsNegative():
		entry.Status = model.StatusReviewUnmatchedDebit
		entry.Confidence = confidenceUnmatchedDebit
		entry.Notes = noteUnmatchedDebit
		entry.Postings = twoLegs(b.suspenseAccount, bank, amount)

	case res.Status == model.MatchIgnoredCreditOrZero && tx.Amount.IsPositive():
		if rule, ok := rules.Apply(tx.Description, tx.Amount, rs); ok && rule.Account != "" {
			entry.Status = model.StatusAutoIncomeHighConfidence
			entry.Confidence = confidenceIncomeRule
			entry.Postings = twoLegs(bank, rule.Account, amount)
		} else {
			entry.Status = model.StatusReviewUnmatchedCredit
			entry.Confidence = confidenceIncomeNoRule
			entry.Notes = noteUnmatchedCredit
			entry.Postings = twoLegs(bank, b.suspenseAccount, amount)
		}

	default:
		diag.Infof(b.sink, diag.StageJournal, entryID, "skipping %q: amount %s with matcher status %q",
			tx.Description, tx.Amount.String(), res.Status)
		return model.JournalEntry{}, false
	}

	return entry, true
}

// describe prefixes the vendor name unless the description already mentions it.
func describe(desc string, v *model.Voucher) string {
	if v == nil || v.VendorName == "" {
		return desc
	}
	if strings.Contains(strings.ToLower(desc), strings.ToLower(v.VendorName)) {
		return desc
	}
	return v.VendorName + " - " + desc
}

func twoLegs(debitAccount, creditAccount string, amount decimal.Decimal) []model.Posting {
	return []model.Posting{
		{Account: debitAccount, Debit: amount},
		{Account: creditAccount, Credit: amount},
	}
}
