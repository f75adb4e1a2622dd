package model

import "strings"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// NormalizeAccountType lower-cases free-form type names ("Asset" -> "asset").
func NormalizeAccountType(s string) AccountType {
	return AccountType(strings.ToLower(strings.TrimSpace(s)))
}

// Account represents an entry in accounts.yml.
type Account struct {
	Name        string
	Type        AccountType
	Identifier  string // e.g. last four digits of a bank account
	Description string
}
