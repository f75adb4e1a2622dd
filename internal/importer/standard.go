package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/diag"
	"github.com/cleared-dev/reconcile/internal/model"
)

// StandardParser parses the generic five-column statement layout:
// Date, Description, Amount Debit, Amount Credit, Balance.
// Header names are matched case-insensitively and may appear in any order.
type StandardParser struct{}

var standardHeaders = []string{"date", "description", "amount debit", "amount credit", "balance"}

const initialBalance = "initial balance"

// Format returns the parser name.
func (p *StandardParser) Format() string { return "standard" }

// Matches reports whether header carries every standard column.
func (p *StandardParser) Matches(header []string) bool {
	_, missing := standardColumns(header)
	return len(missing) == 0
}

// Parse reads a standard statement. Debits become negative amounts and
// credits positive. Rows without date or description, rows without any
// amount (other than "Initial Balance") and rows with unparsable numbers
// are skipped.
func (p *StandardParser) Parse(r io.Reader, sink diag.Sink) ([]model.StatementTransaction, error) {
	sink = diag.OrDiscard(sink)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	cols, missing := standardColumns(records[0])
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing expected CSV headers: %s", strings.Join(missing, ", "))
	}

	var txns []model.StatementTransaction
	for i, rec := range records[1:] {
		ref := fmt.Sprintf("row %d", i+2)
		field := func(name string) string {
			c := cols[name]
			if c >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[c])
		}

		date := field("date")
		desc := field("description")
		if date == "" || desc == "" {
			diag.Warnf(sink, diag.StageImport, ref, "missing date or description, skipping")
			continue
		}

		debitStr := field("amount debit")
		creditStr := field("amount credit")

		amount := decimal.Zero
		var txType string
		switch {
		case debitStr != "" && debitStr != "0":
			d, err := decimal.NewFromString(debitStr)
			if err != nil {
				diag.Warnf(sink, diag.StageImport, ref, "could not parse debit %q, skipping", debitStr)
				continue
			}
			amount = d.Abs().Neg()
			txType = "debit"
		case creditStr != "" && creditStr != "0":
			c, err := decimal.NewFromString(creditStr)
			if err != nil {
				diag.Warnf(sink, diag.StageImport, ref, "could not parse credit %q, skipping", creditStr)
				continue
			}
			amount = c.Abs()
			txType = "credit"
		case strings.EqualFold(desc, initialBalance):
		case debitStr == "" && creditStr == "":
			diag.Infof(sink, diag.StageImport, ref, "no debit or credit amount for %q, skipping", desc)
			continue
		}

		balance := decimal.Zero
		if s := field("balance"); s != "" {
			b, err := decimal.NewFromString(s)
			if err != nil {
				diag.Warnf(sink, diag.StageImport, ref, "could not parse balance %q, skipping", s)
				continue
			}
			balance = b
		}

		txns = append(txns, model.StatementTransaction{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Balance:     balance,
			Type:        txType,
		})
	}
	return txns, nil
}

// standardColumns maps lower-cased header names to column indexes and lists
// the standard headers that are absent.
func standardColumns(header []string) (map[string]int, []string) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	var missing []string
	for _, h := range standardHeaders {
		if _, ok := cols[h]; !ok {
			missing = append(missing, h)
		}
	}
	return cols, missing
}
