package accounts

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reconcile/internal/model"
)

func TestNewService(t *testing.T) {
	chart := DefaultChart()
	svc := NewService(chart)

	assert.Len(t, svc.All(), len(chart))
}

func TestGetExists(t *testing.T) {
	svc := NewService(DefaultChart())

	acct, ok := svc.Get("Checking Account")
	assert.True(t, ok)
	assert.Equal(t, model.AccountTypeAsset, acct.Type)

	_, ok = svc.Get("checking account")
	assert.False(t, ok, "lookup is exact")

	assert.True(t, svc.Exists("Suspense"))
	assert.False(t, svc.Exists("Nope"))
}

func TestDuplicateNamesFirstWins(t *testing.T) {
	svc := NewService([]model.Account{
		{Name: "Cash", Type: model.AccountTypeAsset, Identifier: "first"},
		{Name: "Cash", Type: model.AccountTypeAsset, Identifier: "second"},
	})
	acct, ok := svc.Get("Cash")
	require.True(t, ok)
	assert.Equal(t, "first", acct.Identifier)
}

func TestByTypeAndFirstOfType(t *testing.T) {
	svc := NewService(DefaultChart())

	assets := svc.ByType(model.AccountTypeAsset)
	assert.Len(t, assets, 2)

	first, ok := svc.FirstOfType(model.AccountTypeAsset)
	require.True(t, ok)
	assert.Equal(t, "Checking Account", first.Name)

	_, ok = NewService(nil).FirstOfType(model.AccountTypeAsset)
	assert.False(t, ok)
}

func TestReadAccounts_NormalizesType(t *testing.T) {
	yml := "accounts:\n  - name: Checking Account\n    type: Asset\n    identifier: '1234'\n  - name: Office Supplies\n    type: Expense\n"
	accts, err := ReadAccounts(strings.NewReader(yml))
	require.NoError(t, err)
	require.Len(t, accts, 2)
	assert.Equal(t, model.AccountTypeAsset, accts[0].Type)
	assert.Equal(t, "1234", accts[0].Identifier)
	assert.Equal(t, model.AccountTypeExpense, accts[1].Type)
}

func TestReadAccounts_MissingName(t *testing.T) {
	_, err := ReadAccounts(strings.NewReader("accounts:\n  - type: Asset\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing name")
}

func TestReadAccounts_Empty(t *testing.T) {
	accts, err := ReadAccounts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, accts)
}

func TestWriteReadRoundTrip(t *testing.T) {
	chart := DefaultChart()
	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, chart))

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(chart))
	for i := range chart {
		assert.Equal(t, chart[i], got[i])
	}
}

func TestSaveLoadFile(t *testing.T) {
	svc := NewService(DefaultChart())
	path := filepath.Join(t.TempDir(), "config", "accounts.yml")
	require.NoError(t, svc.Save(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, loaded.All(), len(DefaultChart()))
	assert.True(t, loaded.Exists("Office Supplies"))
}

func TestLoadFile_Testdata(t *testing.T) {
	svc, err := LoadFile("../../testdata/config/accounts.yml")
	require.NoError(t, err)
	assert.Len(t, svc.All(), 5)
	assert.True(t, svc.Exists("Checking Account"))

	types := make(map[model.AccountType]bool)
	for _, a := range svc.All() {
		types[a.Type] = true
	}
	assert.True(t, types[model.AccountTypeAsset])
	assert.True(t, types[model.AccountTypeExpense])
	assert.True(t, types[model.AccountTypeRevenue])
	assert.True(t, types[model.AccountTypeEquity])
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
