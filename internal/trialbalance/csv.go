package trialbalance

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Header is the trial balance CSV header.
var Header = []string{"Account Name", "Total Debit", "Total Credit"}

// GrandTotal labels the closing row.
const GrandTotal = "GRAND TOTAL"

// WriteCSV writes the report with a closing GRAND TOTAL row. An empty report
// still gets the header and a zero total.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, line := range r.Lines {
		if err := cw.Write([]string{line.Account, line.Debit.StringFixed(2), line.Credit.StringFixed(2)}); err != nil {
			return fmt.Errorf("writing %s: %w", line.Account, err)
		}
	}
	if err := cw.Write([]string{GrandTotal, r.TotalDebit.StringFixed(2), r.TotalCredit.StringFixed(2)}); err != nil {
		return fmt.Errorf("writing grand total: %w", err)
	}
	return cw.Error()
}
