package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project config file at the project root.
const FileName = "reconcile.yaml"

// Config represents the top-level reconcile.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Matching MatchingConfig `yaml:"matching"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Paths    PathsConfig    `yaml:"paths"`
	Output   OutputConfig   `yaml:"output"`
	Git      GitConfig      `yaml:"git"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name string `yaml:"name"`
}

// MatchingConfig tunes statement-to-voucher matching.
type MatchingConfig struct {
	ToleranceDays int `yaml:"tolerance_days"`
}

// LedgerConfig names the accounts the journal builder posts to.
type LedgerConfig struct {
	// BankAccount empty means the first asset account in the chart.
	BankAccount     string `yaml:"bank_account,omitempty"`
	SuspenseAccount string `yaml:"suspense_account"`
}

// PathsConfig locates inputs and outputs, relative to the project root.
type PathsConfig struct {
	Accounts   string `yaml:"accounts"`
	Rules      string `yaml:"rules"`
	Statements string `yaml:"statements"`
	Vouchers   string `yaml:"vouchers"`
	Output     string `yaml:"output"`
}

// OutputConfig selects which artifacts a run writes.
type OutputConfig struct {
	JournalJSON      bool `yaml:"journal_json"`
	JournalCSV       bool `yaml:"journal_csv"`
	TrialBalanceCSV  bool `yaml:"trial_balance_csv"`
	TrialBalanceXLSX bool `yaml:"trial_balance_xlsx"`
	TrialBalancePDF  bool `yaml:"trial_balance_pdf"`
	Metrics          bool `yaml:"metrics"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LoggingConfig sets the console log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a reconcile.yaml file from disk. Keys missing from the file
// keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate rejects values no run could use.
func (c *Config) Validate() error {
	if c.Matching.ToleranceDays < 0 {
		return fmt.Errorf("matching.tolerance_days must not be negative, got %d", c.Matching.ToleranceDays)
	}
	if c.Ledger.SuspenseAccount == "" {
		return fmt.Errorf("ledger.suspense_account must not be empty")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

// Resolve joins p onto root unless p is already absolute.
func Resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name: businessName,
		},
		Matching: MatchingConfig{
			ToleranceDays: 3,
		},
		Ledger: LedgerConfig{
			SuspenseAccount: "Suspense",
		},
		Paths: PathsConfig{
			Accounts:   "config/accounts.yml",
			Rules:      "config/rules.yml",
			Statements: "statements",
			Vouchers:   "vouchers",
			Output:     "output",
		},
		Output: OutputConfig{
			JournalJSON:     true,
			JournalCSV:      true,
			TrialBalanceCSV: true,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Reconcile Bot",
			AuthorEmail: "bot@cleared.dev",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
