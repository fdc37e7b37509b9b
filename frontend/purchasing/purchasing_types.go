package purchasing

import (
	"github.com/shopspring/decimal"

	"stockdesk/models"
)

// POLineInput is one ordered product on a submitted purchase order.
type POLineInput struct {
	ProductID int64
	Qty       int64
	UnitCost  decimal.Decimal
}

// POInput carries one purchase order form submission.
type POInput struct {
	Reference string
	Supplier  string
	Notes     string
	Lines     []POLineInput
}

type POView struct {
	ID        int64  `bun:"id"`
	Reference string `bun:"reference"`
	Supplier  string `bun:"supplier"`
	Status    string `bun:"status"`
	LineCount int64  `bun:"line_count"`
	TotalCost string `bun:"total_cost"`
	CreatedAt string `bun:"created_at"`
}

type POLineView struct {
	ProductCode string          `bun:"product_code"`
	ProductName string          `bun:"product_name"`
	Qty         int64           `bun:"qty"`
	UnitCost    decimal.Decimal `bun:"unit_cost"`
}

// LineTotal returns qty times unit cost.
func (l POLineView) LineTotal() decimal.Decimal {
	return l.UnitCost.Mul(decimal.NewFromInt(l.Qty))
}

type ReceiptFileMeta struct {
	ID        int64  `bun:"id"`
	FileName  string `bun:"file_name"`
	FileMIME  string `bun:"file_mime"`
	CreatedAt string `bun:"created_at"`
}

// PODetail is one purchase order with its lines and uploaded receipts.
type PODetail struct {
	Order    models.PurchaseOrder
	Lines    []POLineView
	Total    decimal.Decimal
	Receipts []ReceiptFileMeta
}

type ListPageData struct {
	Message  string
	Orders   []POView
	Products []ProductOption
}

type ProductOption struct {
	ID   int64  `bun:"id"`
	Code string `bun:"code"`
	Name string `bun:"name"`
}
