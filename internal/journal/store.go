package journal

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cleared-dev/reconcile/internal/model"
)

const (
	JSONFile = "journal_entries.json"
	CSVFile  = "journal.csv"
)

// Store persists generated entries under an output directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// JSONPath returns the path of journal_entries.json.
func (s *Store) JSONPath() string {
	return filepath.Join(s.dir, JSONFile)
}

// CSVPath returns the path of journal.csv.
func (s *Store) CSVPath() string {
	return filepath.Join(s.dir, CSVFile)
}

// SaveJSON overwrites journal_entries.json with entries.
func (s *Store) SaveJSON(entries []model.JournalEntry) error {
	return s.write(s.JSONPath(), func(w io.Writer) error {
		return WriteJSON(w, entries)
	})
}

// SaveCSV overwrites journal.csv with the legs of entries.
func (s *Store) SaveCSV(entries []model.JournalEntry) error {
	return s.write(s.CSVPath(), func(w io.Writer) error {
		return WriteLegs(w, Legs(entries))
	})
}

// LoadJSON reads journal_entries.json. A missing file yields no entries.
func (s *Store) LoadJSON() ([]model.JournalEntry, error) {
	f, err := os.Open(s.JSONPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal JSON: %w", err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// LoadCSV reads journal.csv and regroups its legs. A missing file yields no entries.
func (s *Store) LoadCSV() ([]model.JournalEntry, error) {
	f, err := os.Open(s.CSVPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal CSV: %w", err)
	}
	defer f.Close()

	legs, err := ReadLegs(f)
	if err != nil {
		return nil, err
	}
	return Entries(legs), nil
}

func (s *Store) write(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
