package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/diag"
	"github.com/cleared-dev/reconcile/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColType    = 4
	chaseColBalance = 5
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Matches reports whether header is a Chase checking export header.
func (p *ChaseParser) Matches(header []string) bool {
	return len(header) == chaseNumFields &&
		strings.EqualFold(strings.TrimSpace(header[0]), "Details") &&
		strings.EqualFold(strings.TrimSpace(header[chaseColDate]), "Posting Date")
}

// Parse reads a Chase CSV. Amounts are already signed (debits negative).
func (p *ChaseParser) Parse(r io.Reader, sink diag.Sink) ([]model.StatementTransaction, error) {
	sink = diag.OrDiscard(sink)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.StatementTransaction
	for i, rec := range records[1:] {
		txn, err := parseChaseRow(rec)
		if err != nil {
			diag.Warnf(sink, diag.StageImport, fmt.Sprintf("row %d", i+2), "%v, skipping", err)
			continue
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseChaseRow(rec []string) (model.StatementTransaction, error) {
	date, err := time.Parse(chaseDateFormat, rec[chaseColDate])
	if err != nil {
		return model.StatementTransaction{}, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := decimal.NewFromString(rec[chaseColAmount])
	if err != nil {
		return model.StatementTransaction{}, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}

	var balance decimal.Decimal
	if s := strings.TrimSpace(rec[chaseColBalance]); s != "" {
		balance, err = decimal.NewFromString(s)
		if err != nil {
			return model.StatementTransaction{}, fmt.Errorf("parsing balance %q: %w", s, err)
		}
	}

	desc := rec[chaseColDesc]
	return model.StatementTransaction{
		ID:          makeChaseRef(date, desc),
		Date:        model.FormatDate(date),
		Description: desc,
		Amount:      amount,
		Balance:     balance,
		Type:        rec[chaseColType],
	}, nil
}

// makeChaseRef creates a reference like chase_20250103_GITHUB.
func makeChaseRef(date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("chase_%s_%s", date.Format("20060102"), prefix)
}
