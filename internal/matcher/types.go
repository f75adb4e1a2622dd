package matcher

import "github.com/cleared-dev/reconcile/internal/model"

// Config holds matcher configuration.
type Config struct {
	ToleranceDays int // maximum |statement date - voucher date| in days
}

// DefaultConfig returns the default three-day tolerance.
func DefaultConfig() Config {
	return Config{ToleranceDays: 3}
}

// Consumed is the set of voucher indexes already claimed in one matching run.
type Consumed map[int]bool

// Has reports whether voucher i has been claimed.
func (c Consumed) Has(i int) bool {
	return c[i]
}

// Candidate is a scored voucher that passed the amount and date filters.
type Candidate struct {
	Index    int // position in the input voucher slice
	Score    int
	DateDiff int // days
}

// Result is the matcher's verdict for one statement transaction.
type Result struct {
	Statement    model.StatementTransaction
	Voucher      *model.Voucher // nil unless Status is matched
	VoucherIndex int            // -1 when Voucher is nil
	Status       model.MatchStatus
	Score        int
}

// Run is the output of one MatchAll call.
type Run struct {
	Results  []Result
	Consumed Consumed
}

// Count returns how many results have the given status.
func (r Run) Count(status model.MatchStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// UnusedVouchers returns the vouchers no statement claimed, in input order.
func (r Run) UnusedVouchers(vouchers []model.Voucher) []model.Voucher {
	var out []model.Voucher
	for i, v := range vouchers {
		if !r.Consumed.Has(i) {
			out = append(out, v)
		}
	}
	return out
}
