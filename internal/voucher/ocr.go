package voucher

import (
	"fmt"

	"github.com/cleared-dev/reconcile/internal/diag"
	"github.com/cleared-dev/reconcile/internal/id"
	"github.com/cleared-dev/reconcile/internal/model"
)

// Placeholder stands in for OCR: it returns a fixed receipt whatever the input.
func Placeholder(name string) Extracted {
	return Extracted{
		VendorName:      "Example Store",
		TransactionDate: "2023-10-20",
		TotalAmount:     "125.50",
		Currency:        "USD",
		LineItems: []ExtractedItem{
			{Description: "Item A", Quantity: "2", UnitPrice: "50.00", TotalPrice: "100.00"},
			{Description: "Item B", Quantity: "1", UnitPrice: "25.50", TotalPrice: "25.50"},
		},
		RawText: "Example Store\n123 Main St\nDate: 2023-10-20\n" +
			"Item A 2 @ 50.00 = 100.00\nItem B 1 @ 25.50 = 25.50\nTotal: 125.50",
	}
}

// Simulate produces n vouchers from the placeholder. Every other voucher,
// starting with the first, is a single-item "Another Vendor Co" receipt.
func Simulate(n int, sink diag.Sink) []model.Voucher {
	sink = diag.OrDiscard(sink)

	var out []model.Voucher
	for i := 0; i < n; i++ {
		file := fmt.Sprintf("simulated_voucher_%d.pdf", i+1)
		ex := Placeholder(file)
		if i%2 == 0 {
			ex.VendorName = "Another Vendor Co"
			ex.TotalAmount = "75.20"
			ex.LineItems = []ExtractedItem{{Description: "Service X", Quantity: "1", UnitPrice: "75.20", TotalPrice: "75.20"}}
		}
		ex.ID = id.VoucherID("vouchSim", i+1)

		v, err := Structure(ex, sink)
		if err != nil {
			diag.Warnf(sink, diag.StageVoucher, ex.ID, "%v", err)
			continue
		}
		v.SourceFile = file
		out = append(out, v)
	}
	diag.Infof(sink, diag.StageVoucher, "", "simulated %d vouchers", len(out))
	return out
}
