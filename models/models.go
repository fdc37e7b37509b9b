package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// User represents an authenticated console user.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,unique,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Role         string    `bun:"role,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Session is used by middleware and auth handlers.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID                string         `bun:"id,pk"`
	UserID            int64          `bun:"user_id,notnull"`
	User              User           `bun:"rel:belongs-to,join:user_id=id"`
	UserRoles         []string       `bun:"-"`
	ScreenPermissions map[string]int `bun:"-"`
	ExpiresAt         time.Time      `bun:"expires_at,notnull"`
	CreatedAt         time.Time      `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt         time.Time      `bun:"updated_at,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Product is the item master. Consumable product types are eligible for
// expiry tracking.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Code        string    `bun:"code,notnull,unique"`
	Name        string    `bun:"name,notnull"`
	ProductType string    `bun:"product_type,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Consumable product types that carry expiry dates.
var consumableTypes = map[string]bool{
	"coffee": true,
	"tea":    true,
	"drinks": true,
	"beans":  true,
}

// Consumable reports whether the product type is expiry-eligible.
func (p Product) Consumable() bool {
	return consumableTypes[p.ProductType]
}

// PurchaseOrder tracks an order placed with a supplier.
type PurchaseOrder struct {
	bun.BaseModel `bun:"table:purchase_orders,alias:po"`

	ID              int64     `bun:"id,pk,autoincrement"`
	Reference       string    `bun:"reference,notnull,unique"`
	Supplier        string    `bun:"supplier,notnull"`
	Status          string    `bun:"status,notnull"`
	Notes           string    `bun:"notes"`
	CreatedByUserID int64     `bun:"created_by_user_id,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// PurchaseOrderLine is one ordered product on a purchase order.
type PurchaseOrderLine struct {
	bun.BaseModel `bun:"table:purchase_order_lines,alias:pol"`

	ID              int64           `bun:"id,pk,autoincrement"`
	PurchaseOrderID int64           `bun:"purchase_order_id,notnull"`
	ProductID       int64           `bun:"product_id,notnull"`
	Qty             int64           `bun:"qty,notnull"`
	UnitCost        decimal.Decimal `bun:"unit_cost,notnull"`
	CreatedAt       time.Time       `bun:"created_at,notnull,default:current_timestamp"`
}

// LineTotal returns qty times unit cost.
func (l PurchaseOrderLine) LineTotal() decimal.Decimal {
	return l.UnitCost.Mul(decimal.NewFromInt(l.Qty))
}

// ReceiptFile stores an uploaded receipt document against a purchase order.
type ReceiptFile struct {
	bun.BaseModel `bun:"table:receipt_files,alias:rf"`

	ID               int64     `bun:"id,pk,autoincrement"`
	PurchaseOrderID  int64     `bun:"purchase_order_id,notnull"`
	FileBlob         []byte    `bun:"file_blob,notnull"`
	FileMIME         string    `bun:"file_mime,notnull,default:'application/pdf'"`
	FileName         string    `bun:"file_name,notnull,default:'receipt.pdf'"`
	UploadedByUserID int64     `bun:"uploaded_by_user_id,notnull"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// IntakeLine records one product's arrival with its quality breakdown.
type IntakeLine struct {
	bun.BaseModel `bun:"table:intake_lines,alias:il"`

	ID               int64      `bun:"id,pk,autoincrement"`
	ProductID        int64      `bun:"product_id,notnull"`
	PurchaseOrderID  *int64     `bun:"purchase_order_id"`
	ReceivedQty      int64      `bun:"received_qty,notnull"`
	PassedQty        int64      `bun:"passed_qty,notnull,default:0"`
	RefurbishedQty   int64      `bun:"refurbished_qty,notnull,default:0"`
	DamagedQty       int64      `bun:"damaged_qty,notnull,default:0"`
	ExpiredQty       int64      `bun:"expired_qty,notnull,default:0"`
	HasExpiry        bool       `bun:"has_expiry,notnull,default:false"`
	ExpiryDate       *time.Time `bun:"expiry_date"`
	Status           string     `bun:"status,notnull,default:'pending'"`
	Notes            string     `bun:"notes"`
	ReceivedByUserID int64      `bun:"received_by_user_id,notnull"`
	CreatedAt        time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt        time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// AvailableQty is the portion of an intake line that can be distributed.
func (l IntakeLine) AvailableQty() int64 {
	return l.PassedQty + l.RefurbishedQty
}

// IntakeLocation stores the warehouse slot for one quality category of an
// intake line.
type IntakeLocation struct {
	bun.BaseModel `bun:"table:intake_locations,alias:iloc"`

	ID           int64     `bun:"id,pk,autoincrement"`
	IntakeLineID int64     `bun:"intake_line_id,notnull"`
	Category     string    `bun:"category,notnull"`
	Zone         string    `bun:"zone,notnull"`
	Aisle        string    `bun:"aisle,notnull"`
	Shelf        string    `bun:"shelf,notnull"`
	Bin          string    `bun:"bin,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// DistributionSplit records how available stock for a product was split
// between channels.
type DistributionSplit struct {
	bun.BaseModel `bun:"table:distribution_splits,alias:ds"`

	ID            int64     `bun:"id,pk,autoincrement"`
	ProductID     int64     `bun:"product_id,notnull"`
	AvailableQty  int64     `bun:"available_qty,notnull"`
	OnlineQty     int64     `bun:"online_qty,notnull"`
	OfflineQty    int64     `bun:"offline_qty,notnull"`
	SplitByUserID int64     `bun:"split_by_user_id,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// ShippingZone groups destination regions for rate configuration.
type ShippingZone struct {
	bun.BaseModel `bun:"table:shipping_zones,alias:sz"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull,unique"`
	Regions   string    `bun:"regions,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// ShippingMethod is a carrier service with its rates.
type ShippingMethod struct {
	bun.BaseModel `bun:"table:shipping_methods,alias:sm"`

	ID        int64           `bun:"id,pk,autoincrement"`
	Name      string          `bun:"name,notnull"`
	Carrier   string          `bun:"carrier,notnull"`
	BaseRate  decimal.Decimal `bun:"base_rate,notnull"`
	PerKgRate decimal.Decimal `bun:"per_kg_rate,notnull"`
	Enabled   bool            `bun:"enabled,notnull,default:true"`
	CreatedAt time.Time       `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time       `bun:"updated_at,notnull,default:current_timestamp"`
}

// ShippingZoneMethod assigns a method to a zone.
type ShippingZoneMethod struct {
	bun.BaseModel `bun:"table:shipping_zone_methods,alias:szm"`

	ID        int64     `bun:"id,pk,autoincrement"`
	ZoneID    int64     `bun:"zone_id,notnull"`
	MethodID  int64     `bun:"method_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// ActivityLog captures immutable change history for key operations.
type ActivityLog struct {
	bun.BaseModel `bun:"table:activity_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     int64     `bun:"user_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// ConsoleSettings is the single-row operational settings record injected into
// the reconciliation engine as its configuration.
type ConsoleSettings struct {
	bun.BaseModel `bun:"table:console_settings,alias:cs"`

	ID                  int64     `bun:"id,pk"`
	ExpiredZone         string    `bun:"expired_zone,notnull"`
	ExpiredAisle        string    `bun:"expired_aisle,notnull"`
	ExpiredShelf        string    `bun:"expired_shelf,notnull"`
	ExpiredBin          string    `bun:"expired_bin,notnull"`
	AutoCalculate       bool      `bun:"auto_calculate,notnull,default:true"`
	IntakeEnabled       bool      `bun:"intake_enabled,notnull,default:true"`
	DistributionEnabled bool      `bun:"distribution_enabled,notnull,default:true"`
	UpdatedAt           time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
