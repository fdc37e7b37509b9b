package products

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/uptrace/bun"

	"stockdesk/infrastructure/activity"
	"stockdesk/infrastructure/sqlite"
	"stockdesk/models"
)

// Product types accepted by the importer. Consumable types carry expiry
// dates at intake.
var knownTypes = map[string]bool{
	"coffee":    true,
	"tea":       true,
	"drinks":    true,
	"beans":     true,
	"equipment": true,
	"accessory": true,
}

func ListProducts(ctx context.Context, db *sqlite.DB) ([]ProductRecord, error) {
	rows := make([]ProductRecord, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT id, code, name, product_type,
       CASE WHEN product_type IN ('coffee', 'tea', 'drinks', 'beans') THEN 1 ELSE 0 END AS consumable,
       strftime('%d/%m/%Y %H:%M', created_at) AS created_at,
       strftime('%d/%m/%Y %H:%M', updated_at) AS updated_at
FROM products
ORDER BY code COLLATE NOCASE ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

// ImportCSV upserts the item master from a CSV with header code,name,type.
func ImportCSV(ctx context.Context, db *sqlite.DB, activitySvc *activity.Service, userID int64, reader io.Reader) (ImportSummary, error) {
	summary := ImportSummary{}
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return summary, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 3 ||
		!strings.EqualFold(strings.TrimSpace(header[0]), "code") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "name") ||
		!strings.EqualFold(strings.TrimSpace(header[2]), "type") {
		return summary, fmt.Errorf("invalid CSV header; expected code,name,type")
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for {
			record, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				summary.Errors++
				continue
			}
			if len(record) < 3 {
				summary.Errors++
				continue
			}
			code := strings.TrimSpace(record[0])
			name := strings.TrimSpace(record[1])
			productType := strings.ToLower(strings.TrimSpace(record[2]))
			if code == "" || name == "" || !knownTypes[productType] {
				summary.Errors++
				continue
			}

			var exists int
			if err := tx.NewRaw("SELECT COUNT(1) FROM products WHERE code = ?", code).Scan(ctx, &exists); err != nil {
				return err
			}
			if exists > 0 {
				summary.Updated++
			} else {
				summary.Inserted++
			}

			if _, err := tx.ExecContext(ctx, `
INSERT INTO products (code, name, product_type, created_at, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT(code) DO UPDATE SET
  name = excluded.name,
  product_type = excluded.product_type,
  updated_at = CURRENT_TIMESTAMP`, code, name, productType); err != nil {
				summary.Errors++
			}
		}

		if activitySvc != nil {
			after := map[string]any{"inserted": summary.Inserted, "updated": summary.Updated, "errors": summary.Errors}
			if err := activitySvc.Write(ctx, tx, userID, "products.import", "products", "batch", nil, after); err != nil {
				return err
			}
		}
		return nil
	})
	return summary, err
}

func DeleteProducts(ctx context.Context, db *sqlite.DB, activitySvc *activity.Service, userID int64, ids []int64) (deleted int, failed int, err error) {
	unique := make(map[int64]struct{}, len(ids))
	filtered := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := unique[id]; ok {
			continue
		}
		unique[id] = struct{}{}
		filtered = append(filtered, id)
	}
	if len(filtered) == 0 {
		return 0, 0, nil
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for _, id := range filtered {
			var before models.Product
			if err := tx.NewRaw(`
SELECT id, code, name, product_type, created_at, updated_at
FROM products
WHERE id = ?`, id).Scan(ctx, &before); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					failed++
					continue
				}
				return err
			}

			// Products referenced by intake or distribution history stay.
			var inUse int
			if err := tx.NewRaw(`
SELECT (SELECT COUNT(1) FROM intake_lines WHERE product_id = ?)
     + (SELECT COUNT(1) FROM distribution_splits WHERE product_id = ?)
     + (SELECT COUNT(1) FROM purchase_order_lines WHERE product_id = ?)`, id, id, id).Scan(ctx, &inUse); err != nil {
				return err
			}
			if inUse > 0 {
				failed++
				continue
			}

			res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
			if err != nil {
				failed++
				continue
			}
			affected, _ := res.RowsAffected()
			if affected == 0 {
				failed++
				continue
			}

			deleted++
			if activitySvc != nil {
				if err := activitySvc.Write(ctx, tx, userID, "products.delete", "products", fmt.Sprintf("%d", id), before, nil); err != nil {
					return err
				}
			}
		}
		return nil
	})
	return deleted, failed, err
}

// LoadProduct returns one product by id.
func LoadProduct(ctx context.Context, db *sqlite.DB, id int64) (models.Product, error) {
	var product models.Product
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&product).Where("p.id = ?", id).Limit(1).Scan(ctx)
	})
	return product, err
}
