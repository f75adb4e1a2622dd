package rules

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/reconcile/internal/model"
)

// File is the on-disk shape of rules.yml.
type File struct {
	Rules []RuleConfig `yaml:"rules"`
}

// RuleConfig is one rule as written in rules.yml.
type RuleConfig struct {
	Name       string     `yaml:"name"`
	Conditions Conditions `yaml:"conditions"`
	Account    string     `yaml:"account"`
}

// Conditions holds the match conditions of a rule.
type Conditions struct {
	Keywords  []string `yaml:"keywords,omitempty"`
	AmountMin string   `yaml:"amount_min,omitempty"`
	AmountMax string   `yaml:"amount_max,omitempty"`
}

// Load reads rules.yml from disk.
func Load(path string) ([]model.Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rules: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes rules.yml, preserving rule order.
func Parse(r io.Reader) ([]model.Rule, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing rules: %w", err)
	}

	out := make([]model.Rule, 0, len(file.Rules))
	for i, rc := range file.Rules {
		rule, err := rc.toModel()
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, rc.Name, err)
		}
		out = append(out, rule)
	}
	return out, nil
}

// Save writes rules to path in rules.yml format.
func Save(path string, rs []model.Rule) error {
	file := File{Rules: make([]RuleConfig, len(rs))}
	for i, r := range rs {
		file.Rules[i] = fromModel(r)
	}
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}

func (rc RuleConfig) toModel() (model.Rule, error) {
	r := model.Rule{
		Name:     rc.Name,
		Keywords: rc.Conditions.Keywords,
		Account:  rc.Account,
	}
	if rc.Conditions.AmountMin != "" {
		d, err := decimal.NewFromString(rc.Conditions.AmountMin)
		if err != nil {
			return model.Rule{}, fmt.Errorf("parsing amount_min %q: %w", rc.Conditions.AmountMin, err)
		}
		r.AmountMin = &d
	}
	if rc.Conditions.AmountMax != "" {
		d, err := decimal.NewFromString(rc.Conditions.AmountMax)
		if err != nil {
			return model.Rule{}, fmt.Errorf("parsing amount_max %q: %w", rc.Conditions.AmountMax, err)
		}
		r.AmountMax = &d
	}
	return r, nil
}

func fromModel(r model.Rule) RuleConfig {
	rc := RuleConfig{
		Name:       r.Name,
		Conditions: Conditions{Keywords: r.Keywords},
		Account:    r.Account,
	}
	if r.AmountMin != nil {
		rc.Conditions.AmountMin = r.AmountMin.String()
	}
	if r.AmountMax != nil {
		rc.Conditions.AmountMax = r.AmountMax.String()
	}
	return rc
}

// Defaults returns the starter rule set written by `reconcile init`.
func Defaults() []model.Rule {
	return []model.Rule{
		{Name: "Office Supplies Rule", Keywords: []string{"office depot", "staples"}, Account: "Office Supplies"},
		{Name: "Software Rule", Keywords: []string{"zoom video", "zoom.us", "github", "microsoft"}, Account: "Software Subscriptions"},
		{Name: "Income Rule", Keywords: []string{"deposit", "client payment"}, Account: "Sales Revenue"},
	}
}
