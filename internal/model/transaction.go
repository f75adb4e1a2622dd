package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the ISO-8601 calendar date layout used across statements and entries.
const DateFormat = "2006-01-02"

// StatementTransaction represents one parsed bank statement line.
type StatementTransaction struct {
	ID          string          // empty when the parser assigned none
	Date        string          // ISO-8601 as read from the statement; may be malformed
	Description string          //nolint:revive
	Amount      decimal.Decimal // negative = debit (outflow), positive = credit (inflow)
	Balance     decimal.Decimal // informational
	Type        string          // "debit", "credit" or bank-specific type
}

// IsDebit reports whether the transaction is an outflow.
func (t StatementTransaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// ParseDate parses an ISO-8601 calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// FormatDate formats t as an ISO-8601 calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// IsZero reports whether t carries no data at all (an absent statement).
func (t StatementTransaction) IsZero() bool {
	return t.ID == "" && t.Date == "" && t.Description == "" && t.Type == "" &&
		t.Amount.IsZero() && t.Balance.IsZero()
}
