package intake

import (
	"time"

	"stockdesk/ledger"
)

// IntakeInput carries one intake form submission. Quantities are raw user
// input; the reconciliation engine is the authority on the final breakdown.
type IntakeInput struct {
	ProductID       int64
	PurchaseOrderID *int64
	ReceivedQty     int64
	DamagedQty      int64
	ExpiredQty      int64
	RefurbishedQty  int64
	PassedQty       int64 // honored only when auto-calculate is off
	HasExpiry       bool
	ExpiryDate      *time.Time
	Locations       map[ledger.Category]ledger.Location
	Notes           string
}

type IntakeLineView struct {
	ID             int64  `bun:"id"`
	ProductCode    string `bun:"product_code"`
	ProductName    string `bun:"product_name"`
	ReceivedQty    int64  `bun:"received_qty"`
	PassedQty      int64  `bun:"passed_qty"`
	RefurbishedQty int64  `bun:"refurbished_qty"`
	DamagedQty     int64  `bun:"damaged_qty"`
	ExpiredQty     int64  `bun:"expired_qty"`
	HasExpiry      bool   `bun:"has_expiry"`
	ExpiryDate     string `bun:"expiry_date"`
	Status         string `bun:"status"`
	CreatedAt      string `bun:"created_at"`
}

type ProductOption struct {
	ID         int64  `bun:"id"`
	Code       string `bun:"code"`
	Name       string `bun:"name"`
	Consumable bool   `bun:"consumable"`
}

type PageData struct {
	Message  string
	Products []ProductOption
	Lines    []IntakeLineView
}
