package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reconcile/internal/model"
)

// mockAccounts implements AccountChecker for testing.
type mockAccounts map[string]bool

func (m mockAccounts) Exists(name string) bool {
	return m[name]
}

var defaultAccounts = mockAccounts{"Checking Account": true, "Office Supplies": true, "Suspense": true}

func entry(id string, postings ...model.Posting) model.JournalEntry {
	return model.JournalEntry{ID: id, Date: date(2023, 10, 5), Postings: postings, Confidence: dec("0.9")}
}

func debit(acct, amt string) model.Posting  { return model.Posting{Account: acct, Debit: dec(amt)} }
func credit(acct, amt string) model.Posting { return model.Posting{Account: acct, Credit: dec(amt)} }

func invariants(errs []ValidationError) []int {
	var out []int
	for _, e := range errs {
		out = append(out, e.Invariant)
	}
	return out
}

func TestValidate_Sample(t *testing.T) {
	errs := ValidateEntries(sampleEntries(), defaultAccounts)
	assert.Empty(t, errs)
}

func TestValidate_Empty(t *testing.T) {
	assert.Empty(t, ValidateEntries(nil, defaultAccounts))
}

func TestValidate_Invariant1_Unbalanced(t *testing.T) {
	errs := ValidateEntries([]model.JournalEntry{
		entry("e1", debit("Office Supplies", "100.00"), credit("Checking Account", "99.00")),
	}, defaultAccounts)
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Invariant)
	assert.Equal(t, SeverityError, errs[0].Severity)
	assert.Contains(t, errs[0].Error(), "debits (100.00) != credits (99.00)")
}

func TestValidate_Invariant2_BothSides(t *testing.T) {
	both := model.Posting{Account: "Suspense", Debit: dec("5"), Credit: dec("5")}
	errs := ValidateEntries([]model.JournalEntry{entry("e1", both, model.Posting{Account: "Checking Account"})}, defaultAccounts)
	assert.Equal(t, []int{2, 2}, invariants(errs))
}

func TestValidate_Invariant3_UnknownAccountIsWarning(t *testing.T) {
	errs := ValidateEntries([]model.JournalEntry{
		entry("e1", debit("Travel", "10.00"), credit("Checking Account", "10.00")),
	}, defaultAccounts)
	require.Len(t, errs, 1)
	assert.Equal(t, 3, errs[0].Invariant)
	assert.Equal(t, SeverityWarning, errs[0].Severity)
	assert.Empty(t, Fatal(errs))
}

func TestValidate_NilAccountsSkipsLookup(t *testing.T) {
	errs := ValidateEntries([]model.JournalEntry{
		entry("e1", debit("Travel", "10.00"), credit("Checking Account", "10.00")),
	}, nil)
	assert.Empty(t, errs)
}

func TestValidate_Invariant4_PostingCount(t *testing.T) {
	errs := ValidateEntries([]model.JournalEntry{
		entry("e1", debit("Suspense", "10.00"), credit("Checking Account", "5.00"), credit("Checking Account", "5.00")),
	}, defaultAccounts)
	assert.Equal(t, []int{4}, invariants(errs))
}

func TestValidate_Invariant5_DuplicateIDs(t *testing.T) {
	e := entry("e1", debit("Suspense", "1.00"), credit("Checking Account", "1.00"))
	errs := ValidateEntries([]model.JournalEntry{e, e}, defaultAccounts)
	assert.Equal(t, []int{5}, invariants(errs))
}

func TestValidate_Invariant6_TooManyDecimals(t *testing.T) {
	errs := ValidateEntries([]model.JournalEntry{
		entry("e1", debit("Suspense", "1.005"), credit("Checking Account", "1.005")),
	}, defaultAccounts)
	assert.Equal(t, []int{6, 6}, invariants(errs))
}

func TestValidate_Invariant7_Negative(t *testing.T) {
	errs := ValidateEntries([]model.JournalEntry{
		entry("e1", debit("Suspense", "-1.00"), credit("Checking Account", "-1.00")),
	}, defaultAccounts)
	assert.Equal(t, []int{7, 7}, invariants(errs))
}

func TestValidate_Invariant8_Confidence(t *testing.T) {
	e := entry("e1", debit("Suspense", "1.00"), credit("Checking Account", "1.00"))
	e.Confidence = dec("1.5")
	errs := ValidateEntries([]model.JournalEntry{e}, defaultAccounts)
	assert.Equal(t, []int{8}, invariants(errs))
}

func TestValidate_GeneratedEntries(t *testing.T) {
	// Everything the builder emits passes validation against its own chart.
	entries := sampleGenerated(t)
	assert.Empty(t, ValidateEntries(entries, chart()))
}
