package commands_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reconcile/internal/journal"
	"github.com/cleared-dev/reconcile/internal/model"
	"github.com/cleared-dev/reconcile/internal/runlog"
)

// newProject initializes a project and copies the sample statement and
// vouchers into it.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runReconcile(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	copyFile(t, filepath.Join("..", "..", "testdata", "statements", "statement.csv"), filepath.Join(dir, "statements", "statement.csv"))
	for _, name := range []string{"office_depot.yaml", "zoom.yaml", "staples_refund.yml", "broken.yaml", "notes.txt"} {
		copyFile(t, filepath.Join("..", "..", "testdata", "vouchers", name), filepath.Join(dir, "vouchers", name))
	}
	return dir
}

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

func TestRun_WritesOutputs(t *testing.T) {
	dir := newProject(t)

	out, err := runReconcile(t, "run", "--repo", dir)
	require.NoError(t, err, out)

	assert.Contains(t, out, "Statements: 6 (3 matched, 0 unmatched, 3 ignored)")
	assert.Contains(t, out, "Journal entries: 5 (1 need review)")
	assert.Contains(t, out, "Trial balance: balanced at 840.50")

	data, err := os.ReadFile(filepath.Join(dir, "output", "journal.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 11, "header plus two legs per entry")
	assert.Equal(t, journal.Header, lines[0])

	raw, err := os.ReadFile(filepath.Join(dir, "output", "journal_entries.json"))
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 5)
	assert.Equal(t, "stmt_statement.csv_2", entries[0]["entry_id"])
	assert.Equal(t, string(model.StatusAutoHighConfidence), entries[0]["status"])
	assert.Equal(t, "vouch1", entries[0]["source_voucher_id"])

	tb, err := os.ReadFile(filepath.Join(dir, "output", "trial_balance.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(tb), "Office Supplies,125.50,0.00")
	assert.Contains(t, string(tb), "GRAND TOTAL,840.50,840.50")
}

func TestRun_AppendsRunLog(t *testing.T) {
	dir := newProject(t)

	_, err := runReconcile(t, "run", "--repo", dir)
	require.NoError(t, err)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	runID := entries[0].RunID
	assert.Len(t, runlog.ForRun(entries, runID), len(entries))

	var refs []string
	for _, e := range entries {
		refs = append(refs, e.Ref)
	}
	assert.Contains(t, refs, "broken.yaml")
}

func TestRun_CommitsResults(t *testing.T) {
	dir := newProject(t)

	out, err := runReconcile(t, "run", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Committed ")

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	msg, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "reconcile: 5 entries, 1 need review")
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	dir := newProject(t)

	out, err := runReconcile(t, "run", "--repo", dir, "--dry-run")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Dry run: nothing written")

	_, err = os.Stat(filepath.Join(dir, "output", "journal.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, runlog.File))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_Archive(t *testing.T) {
	dir := newProject(t)

	_, err := runReconcile(t, "run", "--repo", dir, "--archive")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "statements", "statement.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "statements", "processed", "statement.csv"))
	assert.NoError(t, err)
}

func TestRun_SimulatedVouchers(t *testing.T) {
	dir := newProject(t)

	out, err := runReconcile(t, "run", "--repo", dir, "--simulate-vouchers", "2", "--dry-run")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Statements: 6 (0 matched, 3 unmatched, 3 ignored)")
	assert.Contains(t, out, "Journal entries: 5 (4 need review)")
}

func TestRun_MissingStatementFile(t *testing.T) {
	dir := newProject(t)

	_, err := runReconcile(t, "run", "--repo", dir, "--statements", filepath.Join(dir, "nope.csv"))
	require.Error(t, err)
}

func TestRun_RequiresProject(t *testing.T) {
	_, err := runReconcile(t, "run", "--repo", t.TempDir())
	require.Error(t, err)
}

func TestMatch_PrintsTable(t *testing.T) {
	dir := newProject(t)

	out, err := runReconcile(t, "match", "--repo", dir)
	require.NoError(t, err, out)

	assert.Contains(t, out, "STATEMENT")
	assert.Contains(t, out, "vouch1")
	assert.Contains(t, out, "vouch2")
	assert.Contains(t, out, "3 matched, 0 unmatched, 3 ignored, 0 vouchers unused")
}

func TestTrialBalance_FromLastRun(t *testing.T) {
	dir := newProject(t)

	_, err := runReconcile(t, "trial-balance", "--repo", dir)
	require.Error(t, err, "no journal before the first run")

	_, err = runReconcile(t, "run", "--repo", dir)
	require.NoError(t, err)

	out, err := runReconcile(t, "trial-balance", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Account Name,Total Debit,Total Credit")
	assert.Contains(t, out, "GRAND TOTAL,840.50,840.50")

	xlsx := filepath.Join(dir, "tb.xlsx")
	_, err = runReconcile(t, "trial-balance", "--repo", dir, "--format", "xlsx", "-o", xlsx)
	require.NoError(t, err)
	info, err := os.Stat(xlsx)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
