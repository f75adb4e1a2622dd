package voucher

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/reconcile/internal/diag"
	"github.com/cleared-dev/reconcile/internal/model"
)

// LoadDir structures every *.yaml / *.yml file directly inside dir, in name
// order. Files that fail to decode or validate are skipped with a warning.
// A missing directory yields no vouchers.
func LoadDir(dir string, sink diag.Sink) ([]model.Voucher, error) {
	sink = diag.OrDiscard(sink)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading vouchers dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var out []model.Voucher
	for _, name := range names {
		ex, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			diag.Warnf(sink, diag.StageVoucher, name, "%v, skipping", err)
			continue
		}
		v, err := Structure(ex, sink)
		if err != nil {
			diag.Warnf(sink, diag.StageVoucher, name, "%v, skipping", err)
			continue
		}
		v.SourceFile = name
		out = append(out, v)
	}
	return out, nil
}

// LoadFile decodes one extracted-voucher YAML file.
func LoadFile(path string) (Extracted, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Extracted{}, fmt.Errorf("reading voucher: %w", err)
	}

	var ex Extracted
	if err := yaml.Unmarshal(data, &ex); err != nil {
		return Extracted{}, fmt.Errorf("parsing voucher: %w", err)
	}
	return ex, nil
}

// SaveFile writes ex as YAML, creating parent directories.
func SaveFile(path string, ex Extracted) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating vouchers dir: %w", err)
	}

	data, err := yaml.Marshal(&ex)
	if err != nil {
		return fmt.Errorf("marshaling voucher: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing voucher: %w", err)
	}
	return nil
}
