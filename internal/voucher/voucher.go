// Package voucher validates extracted receipt data into typed vouchers.
package voucher

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/diag"
	"github.com/cleared-dev/reconcile/internal/model"
)

// DefaultCurrency is used when extracted data carries no usable currency.
const DefaultCurrency = "USD"

// ErrInvalid is returned by Structure when a required field is missing or malformed.
var ErrInvalid = errors.New("invalid voucher")

// Extracted is raw receipt data as produced by OCR or written by hand.
// Every field is a string so malformed values can be reported instead of
// failing the decode.
type Extracted struct {
	ID              string          `yaml:"id,omitempty"`
	VendorName      string          `yaml:"vendor_name"`
	TransactionDate string          `yaml:"transaction_date"`
	TotalAmount     string          `yaml:"total_amount"`
	Currency        string          `yaml:"currency,omitempty"`
	LineItems       []ExtractedItem `yaml:"line_items,omitempty"`
	RawText         string          `yaml:"raw_text,omitempty"`
}

// ExtractedItem is one raw line item.
type ExtractedItem struct {
	Description string `yaml:"description"`
	Quantity    string `yaml:"quantity,omitempty"`
	UnitPrice   string `yaml:"unit_price,omitempty"`
	TotalPrice  string `yaml:"total_price,omitempty"`
}

var lineItemTolerance = decimal.RequireFromString("0.015")

// Structure validates and normalises extracted data.
//
// Vendor, date (YYYY-MM-DD) and total are required. A negative total is
// made positive, an unusable currency falls back to USD and malformed line
// items are dropped; each of these is reported to sink. A voucher without an
// ID gets a random one.
func Structure(ex Extracted, sink diag.Sink) (model.Voucher, error) {
	sink = diag.OrDiscard(sink)

	vendor := strings.TrimSpace(ex.VendorName)
	if vendor == "" {
		return model.Voucher{}, fmt.Errorf("%w: missing vendor_name", ErrInvalid)
	}

	if strings.TrimSpace(ex.TransactionDate) == "" {
		return model.Voucher{}, fmt.Errorf("%w: missing transaction_date", ErrInvalid)
	}
	date, err := model.ParseDate(strings.TrimSpace(ex.TransactionDate))
	if err != nil {
		return model.Voucher{}, fmt.Errorf("%w: transaction_date %q is not YYYY-MM-DD", ErrInvalid, ex.TransactionDate)
	}

	if strings.TrimSpace(ex.TotalAmount) == "" {
		return model.Voucher{}, fmt.Errorf("%w: missing total_amount", ErrInvalid)
	}
	total, err := decimal.NewFromString(strings.TrimSpace(ex.TotalAmount))
	if err != nil {
		return model.Voucher{}, fmt.Errorf("%w: total_amount %q: %v", ErrInvalid, ex.TotalAmount, err)
	}

	vid := strings.TrimSpace(ex.ID)
	if vid == "" {
		vid = uuid.NewString()
	}

	if total.IsNegative() {
		diag.Warnf(sink, diag.StageVoucher, vid, "total_amount %s is negative, using %s", total, total.Abs())
		total = total.Abs()
	}

	return model.Voucher{
		ID:              vid,
		VendorName:      vendor,
		TransactionDate: date,
		TotalAmount:     total,
		Currency:        currency(ex.Currency, vid, sink),
		LineItems:       lineItems(ex.LineItems, vid, sink),
		RawText:         strings.TrimSpace(ex.RawText),
	}, nil
}

func currency(s, ref string, sink diag.Sink) string {
	if s == "" {
		return DefaultCurrency
	}
	if len(s) != 3 || strings.IndexFunc(s, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < 'A' || r > 'Z')
	}) >= 0 {
		diag.Warnf(sink, diag.StageVoucher, ref, "invalid currency code %q, defaulting to %s", s, DefaultCurrency)
		return DefaultCurrency
	}
	return strings.ToUpper(s)
}

func lineItems(raw []ExtractedItem, ref string, sink diag.Sink) []model.LineItem {
	var items []model.LineItem
	for i, r := range raw {
		item, err := lineItem(r)
		if err != nil {
			diag.Warnf(sink, diag.StageVoucher, ref, "skipping malformed line item %d: %v", i+1, err)
			continue
		}

		if item.Quantity > 0 && item.UnitPrice.IsPositive() && item.TotalPrice.IsPositive() {
			qty := decimal.NewFromInt(int64(item.Quantity))
			calculated := qty.Mul(item.UnitPrice)
			if calculated.Sub(item.TotalPrice).Abs().GreaterThanOrEqual(lineItemTolerance.Mul(qty)) {
				diag.Warnf(sink, diag.StageVoucher, ref,
					"line item %q total %s does not match %d x %s = %s, keeping stated total",
					item.Description, item.TotalPrice, item.Quantity, item.UnitPrice, calculated)
			}
		}
		items = append(items, item)
	}
	return items
}

func lineItem(r ExtractedItem) (model.LineItem, error) {
	item := model.LineItem{Description: strings.TrimSpace(r.Description), Quantity: 1}

	if q := strings.TrimSpace(r.Quantity); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return model.LineItem{}, fmt.Errorf("quantity %q: %w", q, err)
		}
		item.Quantity = n
	}

	var err error
	if item.UnitPrice, err = optionalAmount(r.UnitPrice); err != nil {
		return model.LineItem{}, fmt.Errorf("unit_price: %w", err)
	}
	if item.TotalPrice, err = optionalAmount(r.TotalPrice); err != nil {
		return model.LineItem{}, fmt.Errorf("total_price: %w", err)
	}
	return item, nil
}

func optionalAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
