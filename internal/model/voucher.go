package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher is a structured purchase receipt used to corroborate a statement debit.
type Voucher struct {
	ID              string
	VendorName      string
	TransactionDate time.Time
	TotalAmount     decimal.Decimal // always >= 0, normalised by voucher.Structure
	Currency        string
	LineItems       []LineItem
	RawText         string
	SourceFile      string
}

// LineItem is one line of a voucher. Informational only.
type LineItem struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}
