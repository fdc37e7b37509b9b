package distribution

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

// ErrDistributionDisabled is returned when the distribution feature flag is
// off.
var ErrDistributionDisabled = fmt.Errorf("distribution is disabled")

// ErrNothingAvailable is returned when a product has no undistributed stock.
var ErrNothingAvailable = fmt.Errorf("no stock available to distribute")

// ProductAvailability is the sellable stock for a product that has not been
// split yet: passed plus refurbished across intake lines, minus everything
// already assigned to a channel.
func ProductAvailability(ctx context.Context, db *sqlite.DB, productID int64) (int64, error) {
	var available int64
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT COALESCE((SELECT SUM(passed_qty + refurbished_qty) FROM intake_lines WHERE product_id = ?), 0)
     - COALESCE((SELECT SUM(online_qty + offline_qty) FROM distribution_splits WHERE product_id = ?), 0)`,
			productID, productID).Scan(ctx, &available)
	})
	if available < 0 {
		available = 0
	}
	return available, err
}

// SaveSplit reconciles and stores one online/offline split against the
// product's current availability. A non-empty violation list means nothing
// was written.
func SaveSplit(ctx context.Context, db *sqlite.DB, activitySvc *activity.Service, userID int64, input SplitInput, cfg ledger.Config) (int64, []ledger.Violation, error) {
	if !cfg.DistributionEnabled {
		return 0, nil, ErrDistributionDisabled
	}
	if userID <= 0 {
		return 0, nil, fmt.Errorf("invalid user id")
	}

	available, err := ProductAvailability(ctx, db, input.ProductID)
	if err != nil {
		return 0, nil, fmt.Errorf("load availability: %w", err)
	}
	if available <= 0 {
		return 0, nil, ErrNothingAvailable
	}

	autoCalc := input.OfflineQty == nil
	l := ledger.NewDistribution(available, autoCalc)
	if err := l.SetCategory(ledger.Online, input.OnlineQty); err != nil {
		return 0, nil, err
	}
	if !autoCalc {
		if err := l.SetCategory(ledger.Offline, *input.OfflineQty); err != nil {
			return 0, nil, err
		}
	}
	if violations := l.Validate(nil, cfg); len(violations) > 0 {
		return 0, violations, nil
	}

	split := models.DistributionSplit{
		ProductID:     input.ProductID,
		AvailableQty:  available,
		OnlineQty:     l.Quantity(ledger.Online),
		OfflineQty:    l.Quantity(ledger.Offline),
		SplitByUserID: userID,
	}
	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&split).Exec(ctx); err != nil {
			return err
		}
		if activitySvc != nil {
			return activitySvc.Write(ctx, tx, userID, "distribution.create", "distribution_splits", fmt.Sprintf("%d", split.ID), nil, split)
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return split.ID, nil, nil
}

// RebalanceSplit shrinks a recorded split proportionally when the stock
// backing it is no longer fully available. Returns false when the split
// already fits.
func RebalanceSplit(ctx context.Context, db *sqlite.DB, activitySvc *activity.Service, userID int64, splitID int64, cfg ledger.Config) (bool, error) {
	if !cfg.DistributionEnabled {
		return false, ErrDistributionDisabled
	}

	var split models.DistributionSplit
	var intakeTotal, otherSplits int64
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(&split).Where("ds.id = ?", splitID).Scan(ctx); err != nil {
			return err
		}
		if err := tx.NewRaw(`SELECT COALESCE(SUM(passed_qty + refurbished_qty), 0) FROM intake_lines WHERE product_id = ?`,
			split.ProductID).Scan(ctx, &intakeTotal); err != nil {
			return err
		}
		return tx.NewRaw(`SELECT COALESCE(SUM(online_qty + offline_qty), 0) FROM distribution_splits WHERE product_id = ? AND id != ?`,
			split.ProductID, splitID).Scan(ctx, &otherSplits)
	})
	if err != nil {
		return false, err
	}

	room := intakeTotal - otherSplits
	if room < 0 {
		room = 0
	}
	if split.OnlineQty+split.OfflineQty <= room {
		return false, nil
	}

	l := ledger.NewDistribution(split.OnlineQty+split.OfflineQty, false)
	if err := l.SetCategory(ledger.Online, split.OnlineQty); err != nil {
		return false, err
	}
	if err := l.SetCategory(ledger.Offline, split.OfflineQty); err != nil {
		return false, err
	}
	l.ScaleTo(room)

	before := split
	split.AvailableQty = room
	split.OnlineQty = l.Quantity(ledger.Online)
	split.OfflineQty = l.Quantity(ledger.Offline)
	split.UpdatedAt = time.Now()

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().Model(&split).WherePK().Exec(ctx); err != nil {
			return err
		}
		if activitySvc != nil {
			return activitySvc.Write(ctx, tx, userID, "distribution.rebalance", "distribution_splits", fmt.Sprintf("%d", split.ID), before, split)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListAvailability returns per-product undistributed stock, including
// products with nothing left so operators can see what sold through.
func ListAvailability(ctx context.Context, db *sqlite.DB) ([]AvailabilityRow, error) {
	rows := make([]AvailabilityRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT p.id AS product_id, p.code, p.name,
       MAX(0, COALESCE(SUM(il.passed_qty + il.refurbished_qty), 0)
            - COALESCE((SELECT SUM(online_qty + offline_qty) FROM distribution_splits WHERE product_id = p.id), 0)) AS available_qty
FROM products p
JOIN intake_lines il ON il.product_id = p.id
GROUP BY p.id, p.code, p.name
ORDER BY p.code COLLATE NOCASE ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

// ListSplits returns recent distribution splits newest first.
func ListSplits(ctx context.Context, db *sqlite.DB) ([]SplitView, error) {
	rows := make([]SplitView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT ds.id, p.code AS product_code, p.name AS product_name,
       ds.available_qty, ds.online_qty, ds.offline_qty,
       strftime('%d/%m/%Y %H:%M', ds.created_at) AS created_at
FROM distribution_splits ds
JOIN products p ON p.id = ds.product_id
ORDER BY ds.id DESC
LIMIT 200`).Scan(ctx, &rows)
	})
	return rows, err
}
