package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/id"
	"github.com/cleared-dev/reconcile/internal/model"
)

// Header is the CSV header for journal.csv.
const Header = "entry_id,date,account,description,debit,credit,confidence,status,source_statement_id,source_voucher_id,notes"

const (
	numFields  = 11
	colEntryID = 0
	colDate    = 1
	colAccount = 2
	colDesc    = 3
	colDebit   = 4
	colCredit  = 5
	colConf    = 6
	colStatus  = 7
	colStmtID  = 8
	colVouchID = 9
	colNotes   = 10
)

// ReadLegs reads all legs from a journal.csv reader.
func ReadLegs(r io.Reader) ([]model.Leg, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var legs []model.Leg
	for i, rec := range records[1:] {
		leg, err := UnmarshalLeg(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		legs = append(legs, leg)
	}
	return legs, nil
}

// WriteLegs writes legs to a journal.csv writer (including header).
func WriteLegs(w io.Writer, legs []model.Leg) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, leg := range legs {
		if err := cw.Write(MarshalLeg(leg)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalLeg converts a Leg to a CSV row.
func MarshalLeg(leg model.Leg) []string {
	row := make([]string, numFields)
	row[colEntryID] = leg.EntryID
	row[colDate] = model.FormatDate(leg.Date)
	row[colAccount] = leg.Account
	row[colDesc] = leg.Description

	if !leg.Debit.IsZero() {
		row[colDebit] = leg.Debit.StringFixed(2)
	}
	if !leg.Credit.IsZero() {
		row[colCredit] = leg.Credit.StringFixed(2)
	}
	if !leg.Confidence.IsZero() {
		row[colConf] = leg.Confidence.String()
	}

	row[colStatus] = string(leg.Status)
	row[colStmtID] = leg.SourceStatementID
	row[colVouchID] = leg.SourceVoucherID
	row[colNotes] = leg.Notes
	return row
}

// UnmarshalLeg converts a CSV row to a Leg.
func UnmarshalLeg(record []string) (model.Leg, error) {
	if len(record) != numFields {
		return model.Leg{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := model.ParseDate(record[colDate])
	if err != nil {
		return model.Leg{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	var debit, credit, confidence decimal.Decimal

	if record[colDebit] != "" {
		debit, err = decimal.NewFromString(record[colDebit])
		if err != nil {
			return model.Leg{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
		}
	}
	if record[colCredit] != "" {
		credit, err = decimal.NewFromString(record[colCredit])
		if err != nil {
			return model.Leg{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
		}
	}
	if record[colConf] != "" {
		confidence, err = decimal.NewFromString(record[colConf])
		if err != nil {
			return model.Leg{}, fmt.Errorf("parsing confidence %q: %w", record[colConf], err)
		}
	}

	return model.Leg{
		EntryID:           record[colEntryID],
		Date:              date,
		Account:           record[colAccount],
		Description:       record[colDesc],
		Debit:             debit,
		Credit:            credit,
		Confidence:        confidence,
		Status:            model.EntryStatus(record[colStatus]),
		SourceStatementID: record[colStmtID],
		SourceVoucherID:   record[colVouchID],
		Notes:             record[colNotes],
	}, nil
}

// Legs flattens entries into journal.csv rows, one per posting.
func Legs(entries []model.JournalEntry) []model.Leg {
	var legs []model.Leg
	for _, e := range entries {
		for i, p := range e.Postings {
			legs = append(legs, model.Leg{
				EntryID:           id.FormatLegID(e.ID, i),
				Date:              e.Date,
				Account:           p.Account,
				Description:       e.Description,
				Debit:             p.Debit,
				Credit:            p.Credit,
				Confidence:        e.Confidence,
				Status:            e.Status,
				SourceStatementID: e.SourceStatementID,
				SourceVoucherID:   e.SourceVoucherID,
				Notes:             e.Notes,
			})
		}
	}
	return legs
}

// Entries regroups legs into entries, preserving first-seen order.
// Entry-level fields are taken from the first leg of each group.
func Entries(legs []model.Leg) []model.JournalEntry {
	var entries []model.JournalEntry
	index := make(map[string]int)
	for _, leg := range legs {
		g := leg.EntryGroup()
		i, ok := index[g]
		if !ok {
			index[g] = len(entries)
			entries = append(entries, model.JournalEntry{
				ID:                g,
				Date:              leg.Date,
				Description:       leg.Description,
				Status:            leg.Status,
				Confidence:        leg.Confidence,
				SourceStatementID: leg.SourceStatementID,
				SourceVoucherID:   leg.SourceVoucherID,
				Notes:             leg.Notes,
			})
			i = len(entries) - 1
		}
		entries[i].Postings = append(entries[i].Postings, model.Posting{
			Account: leg.Account,
			Debit:   leg.Debit,
			Credit:  leg.Credit,
		})
	}
	return entries
}
