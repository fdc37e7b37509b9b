package exports

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"

	"stockdesk/infrastructure/sqlite"
	"stockdesk/models"
)

func openExportsTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "exports-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestWriteIntakeCSV(t *testing.T) {
	db := openExportsTestDB(t)

	user := models.User{Username: "operator1", PasswordHash: "x", Role: "operator"}
	product := models.Product{Code: "SKU-400", Name: "Kettle", ProductType: "equipment"}
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&user).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(&product).Exec(ctx); err != nil {
			return err
		}
		line := models.IntakeLine{
			ProductID:        product.ID,
			ReceivedQty:      25,
			PassedQty:        20,
			DamagedQty:       5,
			Status:           "pending",
			ReceivedByUserID: user.ID,
		}
		_, err := tx.NewInsert().Model(&line).Exec(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("seed fixtures: %v", err)
	}

	var buf bytes.Buffer
	if err := writeIntakeCSV(context.Background(), db, &buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d records", len(records))
	}
	if records[0][0] != "id" || records[0][1] != "product_code" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	row := records[1]
	if row[1] != "SKU-400" || row[3] != "25" || row[4] != "20" || row[6] != "5" {
		t.Fatalf("unexpected row: %v", row)
	}
}

func TestWriteActivityCSVAndRecordRun(t *testing.T) {
	db := openExportsTestDB(t)

	user := models.User{Username: "admin1", PasswordHash: "x", Role: "admin"}
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&user).Exec(ctx); err != nil {
			return err
		}
		log := models.ActivityLog{UserID: user.ID, Action: "settings.update", EntityType: "console_settings", EntityID: "1"}
		_, err := tx.NewInsert().Model(&log).Exec(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("seed fixtures: %v", err)
	}

	var buf bytes.Buffer
	if err := writeActivityCSV(context.Background(), db, &buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 || records[1][1] != "admin1" || records[1][2] != "settings.update" {
		t.Fatalf("unexpected records: %v", records)
	}

	if err := recordExportRun(context.Background(), db, &user.ID, "activity_csv"); err != nil {
		t.Fatalf("record run: %v", err)
	}
	runs, err := listExportRuns(context.Background(), db)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ExportType != "activity_csv" || runs[0].Username != "admin1" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}
