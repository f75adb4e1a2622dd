package journal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/model"
)

// jsonEntry is the journal_entries.json shape. Amounts are fixed-point
// strings and dates are YYYY-MM-DD.
type jsonEntry struct {
	EntryID           string        `json:"entry_id"`
	Date              string        `json:"date"`
	Description       string        `json:"description"`
	Postings          []jsonPosting `json:"postings"`
	Status            string        `json:"status"`
	ConfidenceScore   string        `json:"confidence_score"`
	SourceStatementID string        `json:"source_statement_id,omitempty"`
	SourceVoucherID   *string       `json:"source_voucher_id"`
	Notes             string        `json:"notes,omitempty"`
}

type jsonPosting struct {
	Account string `json:"account"`
	Debit   string `json:"debit"`
	Credit  string `json:"credit"`
}

// WriteJSON writes entries as an indented JSON array.
func WriteJSON(w io.Writer, entries []model.JournalEntry) error {
	out := make([]jsonEntry, 0, len(entries))
	for _, e := range entries {
		je := jsonEntry{
			EntryID:           e.ID,
			Date:              model.FormatDate(e.Date),
			Description:       e.Description,
			Status:            string(e.Status),
			ConfidenceScore:   e.Confidence.String(),
			SourceStatementID: e.SourceStatementID,
			Notes:             e.Notes,
		}
		if e.SourceVoucherID != "" {
			v := e.SourceVoucherID
			je.SourceVoucherID = &v
		}
		for _, p := range e.Postings {
			je.Postings = append(je.Postings, jsonPosting{
				Account: p.Account,
				Debit:   p.Debit.StringFixed(2),
				Credit:  p.Credit.StringFixed(2),
			})
		}
		out = append(out, je)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding journal entries: %w", err)
	}
	return nil
}

// ReadJSON reads entries written by WriteJSON.
func ReadJSON(r io.Reader) ([]model.JournalEntry, error) {
	var in []jsonEntry
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decoding journal entries: %w", err)
	}

	entries := make([]model.JournalEntry, 0, len(in))
	for _, je := range in {
		date, err := model.ParseDate(je.Date)
		if err != nil {
			return nil, fmt.Errorf("entry %s: parsing date %q: %w", je.EntryID, je.Date, err)
		}
		conf, err := parseAmount(je.ConfidenceScore)
		if err != nil {
			return nil, fmt.Errorf("entry %s: parsing confidence: %w", je.EntryID, err)
		}
		e := model.JournalEntry{
			ID:                je.EntryID,
			Date:              date,
			Description:       je.Description,
			Status:            model.EntryStatus(je.Status),
			Confidence:        conf,
			SourceStatementID: je.SourceStatementID,
			Notes:             je.Notes,
		}
		if je.SourceVoucherID != nil {
			e.SourceVoucherID = *je.SourceVoucherID
		}
		for _, p := range je.Postings {
			debit, err := parseAmount(p.Debit)
			if err != nil {
				return nil, fmt.Errorf("entry %s: parsing debit: %w", je.EntryID, err)
			}
			credit, err := parseAmount(p.Credit)
			if err != nil {
				return nil, fmt.Errorf("entry %s: parsing credit: %w", je.EntryID, err)
			}
			e.Postings = append(e.Postings, model.Posting{Account: p.Account, Debit: debit, Credit: credit})
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
