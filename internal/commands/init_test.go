package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reconcile/internal/accounts"
	"github.com/cleared-dev/reconcile/internal/rules"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "reconcile-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "reconcile")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/reconcile")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runReconcile(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := runReconcile(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	for _, d := range []string{"config", "statements", "vouchers", "output", "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runReconcile(t, "init", dir, "--name", "My Company")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "reconcile.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: My Company")
	assert.Contains(t, contents, "tolerance_days: 3")
	assert.Contains(t, contents, "suspense_account: Suspense")
}

func TestInit_AccountsAndRules(t *testing.T) {
	dir := t.TempDir()
	_, err := runReconcile(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	svc, err := accounts.LoadFile(filepath.Join(dir, "config", "accounts.yml"))
	require.NoError(t, err)
	assert.Len(t, svc.All(), 9)
	assert.True(t, svc.Exists("Suspense"))

	rs, err := rules.Load(filepath.Join(dir, "config", "rules.yml"))
	require.NoError(t, err)
	assert.Equal(t, rules.Defaults(), rs)
}

func TestInit_GitRepo(t *testing.T) {
	dir := t.TempDir()
	_, err := runReconcile(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init: Initialize Test Biz")

	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	out, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Reconcile Bot <bot@cleared.dev>")
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	_, err := runReconcile(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	contents := string(data)

	for _, pattern := range []string{"output/*.xlsx", "output/*.pdf", "output/metrics.prom"} {
		assert.Contains(t, contents, pattern, ".gitignore should contain %s", pattern)
	}
}

func TestInit_RequiresName(t *testing.T) {
	dir := t.TempDir()
	_, err := runReconcile(t, "init", dir)
	require.Error(t, err, "init without --name should fail")
}
