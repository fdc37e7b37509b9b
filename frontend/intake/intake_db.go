package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"stockdesk/infrastructure/activity"
	"stockdesk/infrastructure/sqlite"
	"stockdesk/ledger"
	"stockdesk/models"
)

// ErrIntakeDisabled is returned when the intake feature flag is off.
var ErrIntakeDisabled = fmt.Errorf("stock intake is disabled")

// BuildLedger reconciles the raw form quantities into a balanced intake
// ledger. The engine, not the submitted numbers, decides the final breakdown.
func BuildLedger(input IntakeInput, consumable bool, cfg ledger.Config, now time.Time) (*ledger.Ledger, error) {
	l := ledger.NewIntake(input.ReceivedQty, cfg.AutoCalculate)
	if err := l.SetCategory(ledger.Damaged, input.DamagedQty); err != nil {
		return nil, err
	}
	if err := l.SetCategory(ledger.Expired, input.ExpiredQty); err != nil {
		return nil, err
	}
	if err := l.SetCategory(ledger.Refurbished, input.RefurbishedQty); err != nil {
		return nil, err
	}
	if !cfg.AutoCalculate {
		if err := l.SetCategory(ledger.Passed, input.PassedQty); err != nil {
			return nil, err
		}
	}

	if consumable && input.HasExpiry && input.ExpiryDate != nil {
		assignment := ledger.ExpiryAssignment{HasExpiry: true, ExpiryDate: *input.ExpiryDate}
		if err := l.ApplyExpiry(assignment, now); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// SaveIntake validates and persists one intake line with its per-category
// locations. A non-empty violation list means nothing was written and the
// form stays editable.
func SaveIntake(ctx context.Context, db *sqlite.DB, activitySvc *activity.Service, userID int64, input IntakeInput, cfg ledger.Config) (int64, []ledger.Violation, error) {
	if !cfg.IntakeEnabled {
		return 0, nil, ErrIntakeDisabled
	}
	if userID <= 0 {
		return 0, nil, fmt.Errorf("invalid user id")
	}

	var product models.Product
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&product).Where("p.id = ?", input.ProductID).Limit(1).Scan(ctx)
	})
	if err != nil {
		return 0, nil, fmt.Errorf("load product: %w", err)
	}

	now := time.Now()
	l, err := BuildLedger(input, product.Consumable(), cfg, now)
	if err != nil {
		return 0, nil, err
	}
	if violations := l.Validate(input.Locations, cfg); len(violations) > 0 {
		return 0, violations, nil
	}

	line := models.IntakeLine{
		ProductID:        input.ProductID,
		PurchaseOrderID:  input.PurchaseOrderID,
		ReceivedQty:      l.Received(),
		PassedQty:        l.Quantity(ledger.Passed),
		RefurbishedQty:   l.Quantity(ledger.Refurbished),
		DamagedQty:       l.Quantity(ledger.Damaged),
		ExpiredQty:       l.Quantity(ledger.Expired),
		HasExpiry:        product.Consumable() && input.HasExpiry,
		ExpiryDate:       input.ExpiryDate,
		Status:           "pending",
		Notes:            input.Notes,
		ReceivedByUserID: userID,
	}
	if !product.Consumable() {
		line.HasExpiry = false
		line.ExpiryDate = nil
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&line).Exec(ctx); err != nil {
			return err
		}
		for _, c := range l.Shape().Categories() {
			if l.Quantity(c) <= 0 {
				continue
			}
			loc := ledger.ResolveLocation(c, input.Locations, cfg)
			row := models.IntakeLocation{
				IntakeLineID: line.ID,
				Category:     string(c),
				Zone:         loc.Zone,
				Aisle:        loc.Aisle,
				Shelf:        loc.Shelf,
				Bin:          loc.Bin,
			}
			if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
				return err
			}
		}
		if activitySvc != nil {
			return activitySvc.Write(ctx, tx, userID, "intake.create", "intake_lines", fmt.Sprintf("%d", line.ID), nil, line)
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return line.ID, nil, nil
}

// ListIntakeLines returns recent intake lines newest first.
func ListIntakeLines(ctx context.Context, db *sqlite.DB) ([]IntakeLineView, error) {
	rows := make([]IntakeLineView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT il.id, p.code AS product_code, p.name AS product_name,
       il.received_qty, il.passed_qty, il.refurbished_qty, il.damaged_qty, il.expired_qty,
       il.has_expiry,
       COALESCE(strftime('%d/%m/%Y', il.expiry_date), '') AS expiry_date,
       il.status,
       strftime('%d/%m/%Y %H:%M', il.created_at) AS created_at
FROM intake_lines il
JOIN products p ON p.id = il.product_id
ORDER BY il.id DESC
LIMIT 200`).Scan(ctx, &rows)
	})
	return rows, err
}

// ListProductOptions returns the product choices for the intake form.
func ListProductOptions(ctx context.Context, db *sqlite.DB) ([]ProductOption, error) {
	rows := make([]ProductOption, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT id, code, name,
       CASE WHEN product_type IN ('coffee', 'tea', 'drinks', 'beans') THEN 1 ELSE 0 END AS consumable
FROM products
ORDER BY code COLLATE NOCASE ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

// ApplyExpiryDateBulk assigns one expiry date to every pending expiry-tracked
// intake line and reconciles each line's ledger independently. Returns how
// many lines changed.
func ApplyExpiryDateBulk(ctx context.Context, db *sqlite.DB, activitySvc *activity.Service, userID int64, expiryDate time.Time, cfg ledger.Config) (int, error) {
	if !cfg.IntakeEnabled {
		return 0, ErrIntakeDisabled
	}

	var lines []models.IntakeLine
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&lines).
			Where("il.status = 'pending'").
			Where("il.has_expiry = 1").
			OrderExpr("il.id ASC").
			Scan(ctx)
	})
	if err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, nil
	}

	now := time.Now()
	ledgers := make([]*ledger.Ledger, 0, len(lines))
	for _, line := range lines {
		ledgers = append(ledgers, ledgerFromLine(line, now))
	}

	assignment := ledger.ExpiryAssignment{HasExpiry: true, ExpiryDate: expiryDate}
	affected, err := ledger.ApplyExpiryBulk(ledgers, assignment, now)
	if err != nil {
		return 0, err
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for i, line := range lines {
			l := ledgers[i]
			before := line
			line.PassedQty = l.Quantity(ledger.Passed)
			line.RefurbishedQty = l.Quantity(ledger.Refurbished)
			line.DamagedQty = l.Quantity(ledger.Damaged)
			line.ExpiredQty = l.Quantity(ledger.Expired)
			date := expiryDate
			line.ExpiryDate = &date
			line.UpdatedAt = now
			if _, err := tx.NewUpdate().Model(&line).WherePK().Exec(ctx); err != nil {
				return err
			}
			if activitySvc != nil && !sameBreakdown(before, line) {
				if err := activitySvc.Write(ctx, tx, userID, "intake.expiry_bulk", "intake_lines", fmt.Sprintf("%d", line.ID), before, line); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// ledgerFromLine reconstructs a line's ledger, including the locked state of
// lines whose stored expiry date has already passed.
func ledgerFromLine(line models.IntakeLine, now time.Time) *ledger.Ledger {
	l := ledger.NewIntake(line.ReceivedQty, false)
	_ = l.SetCategory(ledger.Damaged, line.DamagedQty)
	_ = l.SetCategory(ledger.Expired, line.ExpiredQty)
	_ = l.SetCategory(ledger.Refurbished, line.RefurbishedQty)
	_ = l.SetCategory(ledger.Passed, line.PassedQty)
	if line.HasExpiry && line.ExpiryDate != nil {
		_ = l.ApplyExpiry(ledger.ExpiryAssignment{HasExpiry: true, ExpiryDate: *line.ExpiryDate}, now)
	}
	return l
}

func sameBreakdown(a, b models.IntakeLine) bool {
	return a.PassedQty == b.PassedQty &&
		a.RefurbishedQty == b.RefurbishedQty &&
		a.DamagedQty == b.DamagedQty &&
		a.ExpiredQty == b.ExpiredQty
}
