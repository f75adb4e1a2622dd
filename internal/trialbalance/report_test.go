package trialbalance

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/reconcile/internal/diag"
	"github.com/cleared-dev/reconcile/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func entry(id, debitAcct, creditAcct, amount string) model.JournalEntry {
	return model.JournalEntry{
		ID: id,
		Postings: []model.Posting{
			{Account: debitAcct, Debit: dec(amount)},
			{Account: creditAcct, Credit: dec(amount)},
		},
	}
}

func sampleEntries() []model.JournalEntry {
	return []model.JournalEntry{
		entry("s1", "Office Supplies", "Checking Account", "50.00"),
		entry("s2", "Software Subscriptions", "Checking Account", "15.00"),
		entry("s3", "Checking Account", "Sales Revenue", "500.00"),
	}
}

func TestBuild(t *testing.T) {
	rec := &diag.Recorder{}
	r := Build(sampleEntries(), rec)

	require.Len(t, r.Lines, 4)
	assert.Equal(t, "Checking Account", r.Lines[0].Account)
	assert.True(t, r.Lines[0].Debit.Equal(dec("500")))
	assert.True(t, r.Lines[0].Credit.Equal(dec("65")))
	assert.Equal(t, "Office Supplies", r.Lines[1].Account)
	assert.Equal(t, "Sales Revenue", r.Lines[2].Account)
	assert.Equal(t, "Software Subscriptions", r.Lines[3].Account)

	assert.True(t, r.TotalDebit.Equal(dec("565")))
	assert.True(t, r.Balanced())
	assert.True(t, r.Difference().IsZero())
	assert.Empty(t, r.Unbalanced)
	assert.Empty(t, rec.Events())
}

func TestBuild_UnbalancedEntry(t *testing.T) {
	bad := model.JournalEntry{
		ID:          "p1",
		Description: "Partial Payment",
		Postings:    []model.Posting{{Account: "Accounts Payable", Credit: dec("100.00")}},
	}

	rec := &diag.Recorder{}
	r := Build(append(sampleEntries(), bad), rec)

	assert.Equal(t, []string{"p1"}, r.Unbalanced)
	assert.False(t, r.Balanced())
	assert.True(t, r.Difference().Equal(dec("-100")))
	// Entry warning plus overall warning.
	assert.Equal(t, 2, rec.Count(diag.LevelWarn))
	assert.Len(t, r.Lines, 5)
}

func TestBuild_SkipsEmpty(t *testing.T) {
	entries := []model.JournalEntry{
		{ID: "none"},
		{ID: "blank", Postings: []model.Posting{
			{Account: "", Debit: dec("5")},
			{Account: "Checking Account", Credit: dec("5")},
		}},
	}

	rec := &diag.Recorder{}
	r := Build(entries, rec)
	require.Len(t, r.Lines, 1)
	assert.Equal(t, "Checking Account", r.Lines[0].Account)
	// no postings, blank account, unbalanced entry, unbalanced total
	assert.Equal(t, 4, rec.Count(diag.LevelWarn))
}

func TestBuild_NoEntries(t *testing.T) {
	rec := &diag.Recorder{}
	r := Build(nil, rec)
	assert.Empty(t, r.Lines)
	assert.True(t, r.Balanced())
	assert.Equal(t, 1, rec.Count(diag.LevelInfo))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Build(sampleEntries(), nil)))

	want := strings.Join([]string{
		"Account Name,Total Debit,Total Credit",
		"Checking Account,500.00,65.00",
		"Office Supplies,50.00,0.00",
		"Sales Revenue,0.00,500.00",
		"Software Subscriptions,15.00,0.00",
		"GRAND TOTAL,565.00,565.00",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Build(nil, nil)))
	assert.Equal(t, "Account Name,Total Debit,Total Credit\nGRAND TOTAL,0.00,0.00\n", buf.String())
}

func TestBuildXLSX(t *testing.T) {
	data, err := BuildXLSX(Build(sampleEntries(), nil))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "Checking Account", rows[1][0])
	assert.Equal(t, "500", rows[1][1])
	assert.Equal(t, GrandTotal, rows[5][0])
	assert.Equal(t, "565", rows[5][2])
}

func TestBuildPDF(t *testing.T) {
	r := Build(sampleEntries(), nil)
	data, err := BuildPDF("Acme LLC", r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	bad := Build([]model.JournalEntry{{ID: "x", Postings: []model.Posting{{Account: "A", Debit: dec("1")}}}}, nil)
	data, err = BuildPDF("", bad)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
