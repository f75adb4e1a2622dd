package model

import "github.com/shopspring/decimal"

// Rule maps keyword matches on free text to a ledger account.
// Rules are evaluated in list order; order is significant.
type Rule struct {
	Name      string
	Keywords  []string
	Account   string
	AmountMin *decimal.Decimal // nil = unbounded
	AmountMax *decimal.Decimal // nil = unbounded
}
