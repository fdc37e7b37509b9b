package shipping

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

var (
	ErrZoneNameTaken   = errors.New("a shipping zone with this name already exists")
	ErrAlreadyAssigned = errors.New("method is already assigned to this zone")
	ErrNotFound        = errors.New("shipping record not found")
)

// CreateZone stores a named zone with its comma-separated region codes.
func CreateZone(ctx context.Context, db *sqlite.DB, activitySvc *activity.Service, userID int64, name, regions string) (int64, error) {
	name = strings.TrimSpace(name)
	regions = strings.TrimSpace(regions)
	if name == "" {
		return 0, fmt.Errorf("zone name is required")
	}
	if regions == "" {
		return 0, fmt.Errorf("at least one region code is required")
	}

	zone := models.ShippingZone{Name: name, Regions: normalizeRegions(regions)}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*models.ShippingZone)(nil)).
			Where("LOWER(sz.name) = LOWER(?)", name).Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrZoneNameTaken
		}
		if _, err := tx.NewInsert().Model(&zone).Exec(ctx); err != nil {
			return err
		}
		if activitySvc != nil {
			return activitySvc.Write(ctx, tx, userID, "shipping.zone_create", "shipping_zones", fmt.Sprintf("%d", zone.ID), nil, zone)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return zone.ID, nil
}

// normalizeRegions uppercases and deduplicates comma-separated region codes.
func normalizeRegions(raw string) string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return strings.Join(out, ",")
}

// CreateMethod stores a carrier service with decimal rates.
func CreateMethod(ctx context.Context, db *sqlite.DB, activitySvc *activity.Service, userID int64, name, carrier string, baseRate, perKgRate decimal.Decimal) (int64, error) {
	name = strings.TrimSpace(name)
	carrier = strings.TrimSpace(carrier)
	if name == "" || carrier == "" {
		return 0, fmt.Errorf("method name and carrier are required")
	}
	if baseRate.IsNegative() || perKgRate.IsNegative() {
		return 0, fmt.Errorf("rates cannot be negative")
	}

	method := models.ShippingMethod{
		Name:      name,
		Carrier:   carrier,
		BaseRate:  baseRate,
		PerKgRate: perKgRate,
		Enabled:   true,
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&method).Exec(ctx); err != nil {
			return err
		}
		if activitySvc != nil {
			return activitySvc.Write(ctx, tx, userID, "shipping.method_create", "shipping_methods", fmt.Sprintf("%d", method.ID), nil, method)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return method.ID, nil
}

// SetMethodEnabled toggles a method without unassigning it from zones.
func SetMethodEnabled(ctx context.Context, db *sqlite.DB, activitySvc *activity.Service, userID, methodID int64, enabled bool) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var method models.ShippingMethod
		err := tx.NewSelect().Model(&method).Where("sm.id = ?", methodID).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		before := method
		method.Enabled = enabled
		method.UpdatedAt = time.Now()
		if _, err := tx.NewUpdate().Model(&method).WherePK().Exec(ctx); err != nil {
			return err
		}
		if activitySvc != nil {
			return activitySvc.Write(ctx, tx, userID, "shipping.method_toggle", "shipping_methods", fmt.Sprintf("%d", method.ID), before, method)
		}
		return nil
	})
}

// AssignMethodToZone links a method to a zone once.
func AssignMethodToZone(ctx context.Context, db *sqlite.DB, activitySvc *activity.Service, userID, zoneID, methodID int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		zoneExists, err := tx.NewSelect().Model((*models.ShippingZone)(nil)).Where("sz.id = ?", zoneID).Exists(ctx)
		if err != nil {
			return err
		}
		methodExists, err := tx.NewSelect().Model((*models.ShippingMethod)(nil)).Where("sm.id = ?", methodID).Exists(ctx)
		if err != nil {
			return err
		}
		if !zoneExists || !methodExists {
			return ErrNotFound
		}
		assigned, err := tx.NewSelect().Model((*models.ShippingZoneMethod)(nil)).
			Where("szm.zone_id = ?", zoneID).
			Where("szm.method_id = ?", methodID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if assigned {
			return ErrAlreadyAssigned
		}
		row := models.ShippingZoneMethod{ZoneID: zoneID, MethodID: methodID}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return err
		}
		if activitySvc != nil {
			return activitySvc.Write(ctx, tx, userID, "shipping.zone_assign", "shipping_zone_methods", fmt.Sprintf("%d", row.ID), nil, row)
		}
		return nil
	})
}

// UnassignMethodFromZone removes one zone link.
func UnassignMethodFromZone(ctx context.Context, db *sqlite.DB, activitySvc *activity.Service, userID, zoneID, methodID int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*models.ShippingZoneMethod)(nil)).
			Where("zone_id = ?", zoneID).
			Where("method_id = ?", methodID).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		if activitySvc != nil {
			meta := map[string]any{"zone_id": zoneID, "method_id": methodID}
			return activitySvc.Write(ctx, tx, userID, "shipping.zone_unassign", "shipping_zone_methods", fmt.Sprintf("%d-%d", zoneID, methodID), meta, nil)
		}
		return nil
	})
}

// ListZones returns zones with their assigned method names.
func ListZones(ctx context.Context, db *sqlite.DB) ([]ZoneView, error) {
	rows := make([]ZoneView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT sz.id, sz.name, sz.regions,
       COALESCE(GROUP_CONCAT(sm.name, ', '), '') AS methods
FROM shipping_zones sz
LEFT JOIN shipping_zone_methods szm ON szm.zone_id = sz.id
LEFT JOIN shipping_methods sm ON sm.id = szm.method_id
GROUP BY sz.id
ORDER BY sz.name COLLATE NOCASE ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

// ListMethods returns all methods with display-formatted rates.
func ListMethods(ctx context.Context, db *sqlite.DB) ([]MethodView, error) {
	rows := make([]MethodView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT id, name, carrier,
       printf('%.2f', CAST(base_rate AS REAL)) AS base_rate,
       printf('%.2f', CAST(per_kg_rate AS REAL)) AS per_kg_rate,
       enabled
FROM shipping_methods
ORDER BY carrier COLLATE NOCASE ASC, name COLLATE NOCASE ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

// ListAllMethods returns method rows for the assignment form.
func ListAllMethods(ctx context.Context, db *sqlite.DB) ([]models.ShippingMethod, error) {
	rows := make([]models.ShippingMethod, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&rows).OrderExpr("sm.name COLLATE NOCASE ASC").Scan(ctx)
	})
	return rows, err
}
