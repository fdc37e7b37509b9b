package purchasing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"stockdesk/infrastructure/activity"
	"stockdesk/infrastructure/sqlite"
	"stockdesk/models"
)

const (
	StatusOpen      = "open"
	StatusReceived  = "received"
	StatusCancelled = "cancelled"
)

var (
	ErrReferenceTaken    = errors.New("a purchase order with this reference already exists")
	ErrOrderNotFound     = errors.New("purchase order not found")
	ErrInvalidTransition = errors.New("purchase order status cannot change that way")
)

// Open orders can be received or cancelled; received and cancelled orders are
// terminal.
var allowedTransitions = map[string][]string{
	StatusOpen: {StatusReceived, StatusCancelled},
}

func transitionAllowed(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CreatePurchaseOrder validates and persists an order with its lines.
func CreatePurchaseOrder(ctx context.Context, db *sqlite.DB, activitySvc *activity.Service, userID int64, input POInput) (int64, error) {
	input.Reference = strings.TrimSpace(input.Reference)
	input.Supplier = strings.TrimSpace(input.Supplier)
	if input.Reference == "" {
		return 0, fmt.Errorf("reference is required")
	}
	if input.Supplier == "" {
		return 0, fmt.Errorf("supplier is required")
	}
	if len(input.Lines) == 0 {
		return 0, fmt.Errorf("at least one line is required")
	}
	for _, line := range input.Lines {
		if line.ProductID <= 0 {
			return 0, fmt.Errorf("every line needs a product")
		}
		if line.Qty <= 0 {
			return 0, fmt.Errorf("line qty must be greater than 0")
		}
		if line.UnitCost.IsNegative() {
			return 0, fmt.Errorf("unit cost cannot be negative")
		}
	}

	order := models.PurchaseOrder{
		Reference:       input.Reference,
		Supplier:        input.Supplier,
		Status:          StatusOpen,
		Notes:           strings.TrimSpace(input.Notes),
		CreatedByUserID: userID,
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*models.PurchaseOrder)(nil)).
			Where("LOWER(po.reference) = LOWER(?)", input.Reference).Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrReferenceTaken
		}
		if _, err := tx.NewInsert().Model(&order).Exec(ctx); err != nil {
			return err
		}
		for _, line := range input.Lines {
			row := models.PurchaseOrderLine{
				PurchaseOrderID: order.ID,
				ProductID:       line.ProductID,
				Qty:             line.Qty,
				UnitCost:        line.UnitCost,
			}
			if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
				return err
			}
		}
		if activitySvc != nil {
			return activitySvc.Write(ctx, tx, userID, "purchasing.create", "purchase_orders", fmt.Sprintf("%d", order.ID), nil, order)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return order.ID, nil
}

// UpdateOrderStatus applies one allowed status transition.
func UpdateOrderStatus(ctx context.Context, db *sqlite.DB, activitySvc *activity.Service, userID, orderID int64, status string) error {
	if status != StatusReceived && status != StatusCancelled {
		return ErrInvalidTransition
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var order models.PurchaseOrder
		err := tx.NewSelect().Model(&order).Where("po.id = ?", orderID).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if !transitionAllowed(order.Status, status) {
			return ErrInvalidTransition
		}
		before := order
		order.Status = status
		order.UpdatedAt = time.Now()
		if _, err := tx.NewUpdate().Model(&order).WherePK().Exec(ctx); err != nil {
			return err
		}
		if activitySvc != nil {
			return activitySvc.Write(ctx, tx, userID, "purchasing.status", "purchase_orders", fmt.Sprintf("%d", order.ID), before, order)
		}
		return nil
	})
}

// ListPurchaseOrders returns all orders newest first with line counts and
// totals.
func ListPurchaseOrders(ctx context.Context, db *sqlite.DB) ([]POView, error) {
	rows := make([]POView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT po.id, po.reference, po.supplier, po.status,
       COUNT(pol.id) AS line_count,
       COALESCE(printf('%.2f', SUM(pol.qty * CAST(pol.unit_cost AS REAL))), '0.00') AS total_cost,
       strftime('%d/%m/%Y', po.created_at) AS created_at
FROM purchase_orders po
LEFT JOIN purchase_order_lines pol ON pol.purchase_order_id = po.id
GROUP BY po.id
ORDER BY po.id DESC`).Scan(ctx, &rows)
	})
	return rows, err
}

// LoadPurchaseOrder returns one order with lines and receipt metadata.
func LoadPurchaseOrder(ctx context.Context, db *sqlite.DB, orderID int64) (PODetail, error) {
	var detail PODetail
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().Model(&detail.Order).Where("po.id = ?", orderID).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		detail.Lines = make([]POLineView, 0)
		if err := tx.NewRaw(`
SELECT p.code AS product_code, p.name AS product_name, pol.qty, pol.unit_cost
FROM purchase_order_lines pol
JOIN products p ON p.id = pol.product_id
WHERE pol.purchase_order_id = ?
ORDER BY pol.id ASC`, orderID).Scan(ctx, &detail.Lines); err != nil {
			return err
		}
		detail.Receipts = make([]ReceiptFileMeta, 0)
		return tx.NewRaw(`
SELECT id, file_name, file_mime, strftime('%d/%m/%Y %H:%M', created_at) AS created_at
FROM receipt_files
WHERE purchase_order_id = ?
ORDER BY id DESC`, orderID).Scan(ctx, &detail.Receipts)
	})
	if err != nil {
		return PODetail{}, err
	}
	detail.Total = decimal.Zero
	for _, line := range detail.Lines {
		detail.Total = detail.Total.Add(line.LineTotal())
	}
	return detail, nil
}

// SaveReceiptFile stores one uploaded receipt document against an order.
func SaveReceiptFile(ctx context.Context, db *sqlite.DB, activitySvc *activity.Service, userID, orderID int64, blob []byte, mimeType, fileName string) (int64, error) {
	if len(blob) == 0 {
		return 0, fmt.Errorf("receipt file is empty")
	}
	row := models.ReceiptFile{
		PurchaseOrderID:  orderID,
		FileBlob:         blob,
		FileMIME:         mimeType,
		FileName:         fileName,
		UploadedByUserID: userID,
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*models.PurchaseOrder)(nil)).Where("po.id = ?", orderID).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return ErrOrderNotFound
		}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return err
		}
		if activitySvc != nil {
			meta := map[string]any{"file_name": fileName, "file_mime": mimeType, "size": len(blob)}
			return activitySvc.Write(ctx, tx, userID, "purchasing.receipt_upload", "receipt_files", fmt.Sprintf("%d", row.ID), nil, meta)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

// LoadReceiptFile returns one stored receipt document.
func LoadReceiptFile(ctx context.Context, db *sqlite.DB, orderID, fileID int64) (models.ReceiptFile, error) {
	var row models.ReceiptFile
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&row).
			Where("rf.id = ?", fileID).
			Where("rf.purchase_order_id = ?", orderID).
			Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.ReceiptFile{}, ErrOrderNotFound
	}
	return row, err
}

// ListProductOptions returns the product choices for order lines.
func ListProductOptions(ctx context.Context, db *sqlite.DB) ([]ProductOption, error) {
	rows := make([]ProductOption, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT id, code, name FROM products ORDER BY code COLLATE NOCASE ASC`).Scan(ctx, &rows)
	})
	return rows, err
}
