package products

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	"stockdesk/infrastructure/sqlite"
)

func openProductsTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "products-test.db")
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

func TestImportCSV_InsertsAndUpdates(t *testing.T) {
	db := openProductsTestDB(t)

	first := "code,name,type\nCOF-1,House Blend,coffee\nEQ-1,Grinder,equipment\n"
	summary, err := ImportCSV(context.Background(), db, nil, 1, strings.NewReader(first))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if summary.Inserted != 2 || summary.Updated != 0 || summary.Errors != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	second := "code,name,type\nCOF-1,House Blend Dark,coffee\n"
	summary, err = ImportCSV(context.Background(), db, nil, 1, strings.NewReader(second))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if summary.Inserted != 0 || summary.Updated != 1 {
		t.Fatalf("expected update, got %+v", summary)
	}

	var name string
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw("SELECT name FROM products WHERE code = ?", "COF-1").Scan(ctx, &name)
	})
	if err != nil {
		t.Fatalf("load product: %v", err)
	}
	if name != "House Blend Dark" {
		t.Fatalf("expected updated name, got %q", name)
	}
}

func TestImportCSV_RejectsBadHeader(t *testing.T) {
	db := openProductsTestDB(t)

	_, err := ImportCSV(context.Background(), db, nil, 1, strings.NewReader("sku,description\nA,B\n"))
	if err == nil {
		t.Fatalf("expected header rejection")
	}
	if !strings.Contains(err.Error(), "code,name,type") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestImportCSV_CountsUnknownTypeAsError(t *testing.T) {
	db := openProductsTestDB(t)

	csv := "code,name,type\nGAD-1,Gadget,gadgetry\nTEA-1,Green Tea,tea\n"
	summary, err := ImportCSV(context.Background(), db, nil, 1, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if summary.Inserted != 1 || summary.Errors != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestDeleteProducts_SkipsProductsInUse(t *testing.T) {
	db := openProductsTestDB(t)

	csv := "code,name,type\nCOF-1,House Blend,coffee\nTEA-1,Green Tea,tea\n"
	if _, err := ImportCSV(context.Background(), db, nil, 1, strings.NewReader(csv)); err != nil {
		t.Fatalf("import: %v", err)
	}

	var cofID, teaID int64
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewRaw("SELECT id FROM products WHERE code = ?", "COF-1").Scan(ctx, &cofID); err != nil {
			return err
		}
		return tx.NewRaw("SELECT id FROM products WHERE code = ?", "TEA-1").Scan(ctx, &teaID)
	})
	if err != nil {
		t.Fatalf("load ids: %v", err)
	}

	err = db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO users (id, username, password_hash, role) VALUES (1, 'op', 'x', 'operator');
INSERT INTO intake_lines (product_id, received_qty, passed_qty, received_by_user_id)
VALUES (?, 10, 10, 1)`, cofID)
		return err
	})
	if err != nil {
		t.Fatalf("seed intake: %v", err)
	}

	deleted, failed, err := DeleteProducts(context.Background(), db, nil, 1, []int64{cofID, teaID})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 1 || failed != 1 {
		t.Fatalf("expected 1 deleted and 1 failed, got %d/%d", deleted, failed)
	}
}

func TestListProducts_FlagsConsumables(t *testing.T) {
	db := openProductsTestDB(t)

	csv := "code,name,type\nCOF-1,House Blend,coffee\nEQ-1,Grinder,equipment\n"
	if _, err := ImportCSV(context.Background(), db, nil, 1, strings.NewReader(csv)); err != nil {
		t.Fatalf("import: %v", err)
	}

	rows, err := ListProducts(context.Background(), db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		wantConsumable := row.Code == "COF-1"
		if row.Consumable != wantConsumable {
			t.Fatalf("code %s consumable=%v unexpected", row.Code, row.Consumable)
		}
	}
}
