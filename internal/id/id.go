package id

import (
	"fmt"
	"path/filepath"
)

// FallbackEntryID returns the entry ID used when a statement carries none.
// n is the 1-based position of the item in the batch: "je_gen_3".
func FallbackEntryID(n int) string {
	return fmt.Sprintf("je_gen_%d", n)
}

// StatementID returns a statement transaction ID like "stmt_october.csv_4".
// Only the base name of file is used; n is 1-based.
func StatementID(file string, n int) string {
	return fmt.Sprintf("stmt_%s_%d", filepath.Base(file), n)
}

// VoucherID returns a voucher ID like "vouchSim2" for simulated vouchers.
func VoucherID(prefix string, n int) string {
	return fmt.Sprintf("%s%d", prefix, n)
}

// FormatLegID returns a leg ID like "stmt_1a" (leg 0='a', 1='b').
func FormatLegID(entryID string, leg int) string {
	return entryID + string(rune('a'+leg))
}

// EntryGroup strips the single-letter leg suffix from a leg ID.
// "stmt_1a" -> "stmt_1"
func EntryGroup(legID string) string {
	if len(legID) == 0 {
		return ""
	}
	last := legID[len(legID)-1]
	if last < 'a' || last > 'z' {
		return legID
	}
	return legID[:len(legID)-1]
}
