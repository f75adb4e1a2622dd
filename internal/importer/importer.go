// Package importer turns bank statement exports into StatementTransactions.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/reconcile/internal/diag"
	"github.com/cleared-dev/reconcile/internal/id"
	"github.com/cleared-dev/reconcile/internal/model"
)

// Parser converts a bank CSV export into StatementTransactions.
// Malformed rows are skipped and reported to sink; only an unreadable
// file or an unrecognised layout is an error.
type Parser interface {
	Parse(r io.Reader, sink diag.Sink) ([]model.StatementTransaction, error)
	Format() string
	// Matches reports whether header looks like this parser's layout.
	Matches(header []string) bool
}

// Registry holds named parsers in registration order.
type Registry struct {
	parsers map[string]Parser
	order   []Parser
}

// FileInfo describes a CSV file in the statements directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
	r.order = append(r.order, p)
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Detect returns the first registered parser whose layout matches header.
func (r *Registry) Detect(header []string) Parser {
	for _, p := range r.order {
		if p.Matches(header) {
			return p
		}
	}
	return nil
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&StandardParser{})
	r.Register(&ChaseParser{})
	return r
}

// ParseFile parses the statement at path. When format is empty the parser is
// picked from the header row. Transactions without an ID get one from AssignIDs.
func (r *Registry) ParseFile(path, format string, sink diag.Sink) ([]model.StatementTransaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	var p Parser
	if format != "" {
		p = r.Get(format)
		if p == nil {
			return nil, fmt.Errorf("unknown statement format %q", format)
		}
	} else {
		header, err := readHeader(data)
		if err != nil {
			return nil, fmt.Errorf("reading header of %s: %w", filepath.Base(path), err)
		}
		p = r.Detect(header)
		if p == nil {
			return nil, fmt.Errorf("unrecognised statement layout in %s", filepath.Base(path))
		}
	}

	txns, err := p.Parse(bytes.NewReader(data), sink)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	AssignIDs(path, txns)
	return txns, nil
}

func readHeader(data []byte) ([]string, error) {
	line, err := bufio.NewReader(bytes.NewReader(data)).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	rec, err := csv.NewReader(strings.NewReader(line)).Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return rec, err
}

// AssignIDs gives every transaction without an ID a positional one
// ("stmt_<file>_<n>", n 1-based).
func AssignIDs(file string, txns []model.StatementTransaction) {
	for i := range txns {
		if txns[i].ID == "" {
			txns[i].ID = id.StatementID(file, i+1)
		}
	}
}

// processedDir is the subdirectory for archived statements.
const processedDir = "processed"

// Scan returns CSV files directly inside dir, sorted by name.
// A missing directory yields no files.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading statements dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a statement from dir to dir/processed/.
func MarkProcessed(dir, fileName string) error {
	src := filepath.Join(dir, fileName)
	dstDir := filepath.Join(dir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
