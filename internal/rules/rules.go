// Package rules evaluates ordered keyword rules against free text.
package rules

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/model"
)

// Apply returns the first rule whose keywords match text.
//
// Matching is case-insensitive substring search. Rules without keywords are
// never eligible. Evaluation stops at the first match, so list order decides
// between overlapping rules. A rule with amount bounds additionally requires
// |amount| to fall inside them.
func Apply(text string, amount decimal.Decimal, rs []model.Rule) (model.Rule, bool) {
	if text == "" || len(rs) == 0 {
		return model.Rule{}, false
	}
	lower := strings.ToLower(text)
	for _, r := range rs {
		if len(r.Keywords) == 0 {
			continue
		}
		if !matchesKeyword(lower, r.Keywords) {
			continue
		}
		if !inRange(amount.Abs(), r) {
			continue
		}
		return r, true
	}
	return model.Rule{}, false
}

func matchesKeyword(lowerText string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowerText, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func inRange(amount decimal.Decimal, r model.Rule) bool {
	if r.AmountMin != nil && amount.LessThan(*r.AmountMin) {
		return false
	}
	if r.AmountMax != nil && amount.GreaterThan(*r.AmountMax) {
		return false
	}
	return true
}
