package accounts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/reconcile/internal/model"
)

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byName   map[string]model.Account
}

// NewService creates a Service from a slice of accounts.
// When names repeat, the first account wins.
func NewService(accounts []model.Account) *Service {
	byName := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		if _, dup := byName[a.Name]; dup {
			continue
		}
		byName[a.Name] = a
	}
	return &Service{accounts: accounts, byName: byName}
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by exact name.
func (s *Service) Get(name string) (model.Account, bool) {
	a, ok := s.byName[name]
	return a, ok
}

// Exists reports whether an account name exists.
func (s *Service) Exists(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// FirstOfType returns the first account of the given type in chart order.
func (s *Service) FirstOfType(accountType model.AccountType) (model.Account, bool) {
	for _, a := range s.accounts {
		if a.Type == accountType {
			return a, true
		}
	}
	return model.Account{}, false
}

// Save writes the chart of accounts to path, creating parent directories.
func (s *Service) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}
