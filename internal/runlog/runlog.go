// Package runlog keeps a CSV history of the diagnostics each run produced.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cleared-dev/reconcile/internal/diag"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Stage     diag.Stage
	Level     diag.Level
	Ref       string
	Message   string
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,stage,level,ref,message"

// File is run-log.csv relative to the project root.
const File = "logs/run-log.csv"

const (
	numFields    = 6
	colTimestamp = 0
	colRunID     = 1
	colStage     = 2
	colLevel     = 3
	colRef       = 4
	colMessage   = 5
)

// FromEvents stamps events with a run ID and time.
func FromEvents(runID string, ts time.Time, events []diag.Event) []Entry {
	entries := make([]Entry, 0, len(events))
	for _, e := range events {
		entries = append(entries, Entry{
			Timestamp: ts,
			RunID:     runID,
			Stage:     e.Stage,
			Level:     e.Level,
			Ref:       e.Ref,
			Message:   e.Message,
		})
	}
	return entries
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colStage] = string(e.Stage)
	row[colLevel] = string(e.Level)
	row[colRef] = e.Ref
	row[colMessage] = e.Message
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Stage:     diag.Stage(record[colStage]),
		Level:     diag.Level(record[colLevel]),
		Ref:       record[colRef],
		Message:   record[colMessage],
	}, nil
}

// Append writes entries to <root>/logs/run-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	path := filepath.Join(root, File)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <root>/logs/run-log.csv.
// Returns nil if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, File))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// ForRun returns the entries logged by one run.
func ForRun(entries []Entry, runID string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.RunID == runID {
			out = append(out, e)
		}
	}
	return out
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
