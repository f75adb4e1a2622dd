package accounts

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/reconcile/internal/model"
)

// File is the on-disk shape of accounts.yml.
type File struct {
	Accounts []AccountConfig `yaml:"accounts"`
}

// AccountConfig is one account as written in accounts.yml.
type AccountConfig struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Identifier  string `yaml:"identifier,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// ReadAccounts decodes accounts.yml.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing accounts: %w", err)
	}

	accounts := make([]model.Account, 0, len(file.Accounts))
	for i, ac := range file.Accounts {
		if ac.Name == "" {
			return nil, fmt.Errorf("account %d: missing name", i+1)
		}
		accounts = append(accounts, model.Account{
			Name:        ac.Name,
			Type:        model.NormalizeAccountType(ac.Type),
			Identifier:  ac.Identifier,
			Description: ac.Description,
		})
	}
	return accounts, nil
}

// WriteAccounts encodes accounts in accounts.yml format.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	file := File{Accounts: make([]AccountConfig, len(accounts))}
	for i, a := range accounts {
		file.Accounts[i] = AccountConfig{
			Name:        a.Name,
			Type:        string(a.Type),
			Identifier:  a.Identifier,
			Description: a.Description,
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("encoding accounts: %w", err)
	}
	return enc.Close()
}

// LoadFile reads accounts.yml at path and returns a Service.
func LoadFile(path string) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts %s: %w", path, err)
	}
	return NewService(accts), nil
}
