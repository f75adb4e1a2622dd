package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/reconcile/internal/accounts"
	"github.com/cleared-dev/reconcile/internal/config"
	"github.com/cleared-dev/reconcile/internal/diag"
	"github.com/cleared-dev/reconcile/internal/importer"
	"github.com/cleared-dev/reconcile/internal/journal"
	"github.com/cleared-dev/reconcile/internal/model"
	"github.com/cleared-dev/reconcile/internal/rules"
	"github.com/cleared-dev/reconcile/internal/voucher"
)

// project is a loaded reconcile.yaml with its accounts and rules.
type project struct {
	root     string
	cfg      *config.Config
	accounts *accounts.Service
	rules    []model.Rule
}

func loadProject(root string) (*project, error) {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}

	accts, err := accounts.LoadFile(config.Resolve(root, cfg.Paths.Accounts))
	if err != nil {
		return nil, err
	}

	rs, err := rules.Load(config.Resolve(root, cfg.Paths.Rules))
	if err != nil {
		return nil, err
	}

	return &project{root: root, cfg: cfg, accounts: accts, rules: rs}, nil
}

func (p *project) path(rel string) string {
	return config.Resolve(p.root, rel)
}

// bankAccount picks the configured bank account, else the first asset
// account in the chart, else the builder's default.
func (p *project) bankAccount() string {
	if p.cfg.Ledger.BankAccount != "" {
		return p.cfg.Ledger.BankAccount
	}
	if a, ok := p.accounts.FirstOfType(model.AccountTypeAsset); ok {
		return a.Name
	}
	return journal.DefaultBankAccount
}

// statementFile is a parsed statement file.
type statementFile struct {
	name string
	dir  string
}

// loadStatements parses override (a file or directory) or the configured
// statements directory. An explicit file that cannot be parsed is an error;
// within a directory, bad files are skipped with a warning.
func (p *project) loadStatements(override, format string, sink diag.Sink, log zerolog.Logger) ([]model.StatementTransaction, []statementFile, error) {
	target := p.path(p.cfg.Paths.Statements)
	if override != "" {
		target = override
	}

	reg := importer.DefaultRegistry()

	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) && override == "" {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("statements: %w", err)
	}

	if !info.IsDir() {
		txns, err := reg.ParseFile(target, format, sink)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("file", filepath.Base(target)).Int("transactions", len(txns)).Msg("parsed statement")
		return txns, []statementFile{{name: filepath.Base(target), dir: filepath.Dir(target)}}, nil
	}

	files, err := importer.Scan(target)
	if err != nil {
		return nil, nil, err
	}

	var all []model.StatementTransaction
	var parsed []statementFile
	for _, f := range files {
		txns, err := reg.ParseFile(f.Path, format, sink)
		if err != nil {
			diag.Warnf(sink, diag.StageImport, f.Name, "%v, skipping file", err)
			continue
		}
		log.Info().Str("file", f.Name).Int("transactions", len(txns)).Msg("parsed statement")
		all = append(all, txns...)
		parsed = append(parsed, statementFile{name: f.Name, dir: target})
	}
	return all, parsed, nil
}

// loadVouchers simulates n vouchers when n > 0, otherwise reads the
// configured vouchers directory.
func (p *project) loadVouchers(simulate int, sink diag.Sink) ([]model.Voucher, error) {
	if simulate > 0 {
		return voucher.Simulate(simulate, sink), nil
	}
	return voucher.LoadDir(p.path(p.cfg.Paths.Vouchers), sink)
}
