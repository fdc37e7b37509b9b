package purchasing

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stockdesk/models"
)

func TestRenderPurchaseOrderPDF_GeneratesPDF(t *testing.T) {
	t.Parallel()

	detail := PODetail{
		Order: models.PurchaseOrder{
			ID:        7,
			Reference: "PO-2026-010",
			Supplier:  "Altura Imports",
			Status:    StatusOpen,
			Notes:     "Deliver to dock 3",
		},
		Lines: []POLineView{
			{ProductCode: "SKU-300", ProductName: "Single Origin", Qty: 3, UnitCost: decimal.RequireFromString("12.45")},
			{ProductCode: "SKU-301", ProductName: "House Blend", Qty: 10, UnitCost: decimal.RequireFromString("7.00")},
		},
		Total: decimal.RequireFromString("107.35"),
	}

	pdf, err := renderPurchaseOrderPDF(detail, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("renderPurchaseOrderPDF returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("expected non-empty pdf bytes")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("expected pdf header, got %q", pdf[:8])
	}
}
