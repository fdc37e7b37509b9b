package exports

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/uptrace/bun"

	"stockdesk/infrastructure/sqlite"
)

func writeIntakeCSV(ctx context.Context, db *sqlite.DB, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"id", "product_code", "product_name", "received", "passed", "refurbished", "damaged", "expired", "expiry_date", "status", "received_by", "created_at"}
	if err := writer.Write(header); err != nil {
		return err
	}

	type row struct {
		ID             int64  `bun:"id"`
		ProductCode    string `bun:"product_code"`
		ProductName    string `bun:"product_name"`
		ReceivedQty    int64  `bun:"received_qty"`
		PassedQty      int64  `bun:"passed_qty"`
		RefurbishedQty int64  `bun:"refurbished_qty"`
		DamagedQty     int64  `bun:"damaged_qty"`
		ExpiredQty     int64  `bun:"expired_qty"`
		ExpiryDate     string `bun:"expiry_date"`
		Status         string `bun:"status"`
		ReceivedBy     string `bun:"received_by"`
		CreatedAt      string `bun:"created_at"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT il.id, p.code AS product_code, p.name AS product_name,
       il.received_qty, il.passed_qty, il.refurbished_qty, il.damaged_qty, il.expired_qty,
       COALESCE(strftime('%d/%m/%Y', il.expiry_date), '') AS expiry_date,
       il.status, u.username AS received_by,
       strftime('%d/%m/%Y %H:%M', il.created_at) AS created_at
FROM intake_lines il
JOIN products p ON p.id = il.product_id
JOIN users u ON u.id = il.received_by_user_id
ORDER BY il.id ASC`).Scan(ctx, &rows)
	})
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			toString(r.ID), r.ProductCode, r.ProductName,
			toString(r.ReceivedQty), toString(r.PassedQty), toString(r.RefurbishedQty),
			toString(r.DamagedQty), toString(r.ExpiredQty),
			r.ExpiryDate, r.Status, r.ReceivedBy, r.CreatedAt,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func writeDistributionCSV(ctx context.Context, db *sqlite.DB, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"id", "product_code", "product_name", "available", "online", "offline", "split_by", "created_at"}); err != nil {
		return err
	}

	type row struct {
		ID           int64  `bun:"id"`
		ProductCode  string `bun:"product_code"`
		ProductName  string `bun:"product_name"`
		AvailableQty int64  `bun:"available_qty"`
		OnlineQty    int64  `bun:"online_qty"`
		OfflineQty   int64  `bun:"offline_qty"`
		SplitBy      string `bun:"split_by"`
		CreatedAt    string `bun:"created_at"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT ds.id, p.code AS product_code, p.name AS product_name,
       ds.available_qty, ds.online_qty, ds.offline_qty,
       u.username AS split_by,
       strftime('%d/%m/%Y %H:%M', ds.created_at) AS created_at
FROM distribution_splits ds
JOIN products p ON p.id = ds.product_id
JOIN users u ON u.id = ds.split_by_user_id
ORDER BY ds.id ASC`).Scan(ctx, &rows)
	})
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			toString(r.ID), r.ProductCode, r.ProductName,
			toString(r.AvailableQty), toString(r.OnlineQty), toString(r.OfflineQty),
			r.SplitBy, r.CreatedAt,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func writeActivityCSV(ctx context.Context, db *sqlite.DB, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"id", "username", "action", "entity_type", "entity_id", "created_at"}); err != nil {
		return err
	}

	type row struct {
		ID         int64  `bun:"id"`
		Username   string `bun:"username"`
		Action     string `bun:"action"`
		EntityType string `bun:"entity_type"`
		EntityID   string `bun:"entity_id"`
		CreatedAt  string `bun:"created_at"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT al.id, u.username, al.action, al.entity_type, al.entity_id,
       strftime('%d/%m/%Y %H:%M', al.created_at) AS created_at
FROM activity_logs al
JOIN users u ON u.id = al.user_id
ORDER BY al.id ASC`).Scan(ctx, &rows)
	})
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{toString(r.ID), r.Username, r.Action, r.EntityType, r.EntityID, r.CreatedAt}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func recordExportRun(ctx context.Context, db *sqlite.DB, userID *int64, exportType string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var uid any = nil
		if userID != nil {
			uid = *userID
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO export_runs (user_id, export_type, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)`, uid, exportType)
		return err
	})
}

func listExportRuns(ctx context.Context, db *sqlite.DB) ([]ExportRunView, error) {
	rows := make([]ExportRunView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT er.id, COALESCE(u.username, '') AS username, er.export_type,
       strftime('%d/%m/%Y %H:%M', er.created_at) AS created_at
FROM export_runs er
LEFT JOIN users u ON u.id = er.user_id
ORDER BY er.id DESC
LIMIT 50`).Scan(ctx, &rows)
	})
	return rows, err
}

func toString(v int64) string {
	return strconv.FormatInt(v, 10)
}
