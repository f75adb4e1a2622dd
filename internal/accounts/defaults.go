package accounts

import "github.com/cleared-dev/reconcile/internal/model"

// DefaultChart returns the starter chart of accounts written by `reconcile init`.
func DefaultChart() []model.Account {
	return []model.Account{
		{Name: "Checking Account", Type: model.AccountTypeAsset, Identifier: "0000", Description: "Primary bank account"},
		{Name: "Savings Account", Type: model.AccountTypeAsset, Description: "Savings account"},
		{Name: "Credit Card", Type: model.AccountTypeLiability, Description: "Business credit card"},
		{Name: "Suspense", Type: model.AccountTypeEquity, Description: "Unclassified amounts awaiting review"},
		{Name: "Sales Revenue", Type: model.AccountTypeRevenue},
		{Name: "Consulting Revenue", Type: model.AccountTypeRevenue},
		{Name: "Office Supplies", Type: model.AccountTypeExpense, Description: "Office supplies and expenses"},
		{Name: "Software Subscriptions", Type: model.AccountTypeExpense, Description: "Software subscriptions"},
		{Name: "Professional Services", Type: model.AccountTypeExpense, Description: "Legal, accounting, consulting"},
	}
}
