package purchasing

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"stockdesk/infrastructure/sqlite"
	"stockdesk/models"
)

func openPurchasingTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "purchasing-test.db")
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

func seedBuyer(t *testing.T, db *sqlite.DB) (int64, int64) {
	t.Helper()
	user := models.User{Username: "buyer1", PasswordHash: "x", Role: "admin"}
	product := models.Product{Code: "SKU-300", Name: "Single Origin", ProductType: "coffee"}
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&user).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(&product).Exec(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("seed fixtures: %v", err)
	}
	return user.ID, product.ID
}

func TestCreatePurchaseOrder_ComputesDecimalTotals(t *testing.T) {
	db := openPurchasingTestDB(t)
	userID, productID := seedBuyer(t, db)

	input := POInput{
		Reference: "PO-2026-001",
		Supplier:  "Altura Imports",
		Lines: []POLineInput{
			{ProductID: productID, Qty: 3, UnitCost: decimal.RequireFromString("12.45")},
			{ProductID: productID, Qty: 2, UnitCost: decimal.RequireFromString("0.10")},
		},
	}
	orderID, err := CreatePurchaseOrder(context.Background(), db, nil, userID, input)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	detail, err := LoadPurchaseOrder(context.Background(), db, orderID)
	if err != nil {
		t.Fatalf("load order: %v", err)
	}
	if detail.Order.Status != StatusOpen {
		t.Fatalf("expected new order to be open, got %q", detail.Order.Status)
	}
	if len(detail.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(detail.Lines))
	}
	if got := detail.Total.StringFixed(2); got != "37.55" {
		t.Fatalf("expected total 37.55, got %s", got)
	}
}

func TestCreatePurchaseOrder_RejectsDuplicateReference(t *testing.T) {
	db := openPurchasingTestDB(t)
	userID, productID := seedBuyer(t, db)

	input := POInput{
		Reference: "PO-2026-002",
		Supplier:  "Altura Imports",
		Lines:     []POLineInput{{ProductID: productID, Qty: 1, UnitCost: decimal.NewFromInt(5)}},
	}
	if _, err := CreatePurchaseOrder(context.Background(), db, nil, userID, input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	input.Reference = "po-2026-002"
	_, err := CreatePurchaseOrder(context.Background(), db, nil, userID, input)
	if !errors.Is(err, ErrReferenceTaken) {
		t.Fatalf("expected ErrReferenceTaken, got %v", err)
	}
}

func TestUpdateOrderStatus_Transitions(t *testing.T) {
	db := openPurchasingTestDB(t)
	userID, productID := seedBuyer(t, db)

	orderID, err := CreatePurchaseOrder(context.Background(), db, nil, userID, POInput{
		Reference: "PO-2026-003",
		Supplier:  "Altura Imports",
		Lines:     []POLineInput{{ProductID: productID, Qty: 1, UnitCost: decimal.NewFromInt(5)}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := UpdateOrderStatus(context.Background(), db, nil, userID, orderID, StatusReceived); err != nil {
		t.Fatalf("open to received: %v", err)
	}
	err = UpdateOrderStatus(context.Background(), db, nil, userID, orderID, StatusCancelled)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for received order, got %v", err)
	}
	err = UpdateOrderStatus(context.Background(), db, nil, userID, orderID+99, StatusReceived)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestReceiptFile_RoundTrips(t *testing.T) {
	db := openPurchasingTestDB(t)
	userID, productID := seedBuyer(t, db)

	orderID, err := CreatePurchaseOrder(context.Background(), db, nil, userID, POInput{
		Reference: "PO-2026-004",
		Supplier:  "Altura Imports",
		Lines:     []POLineInput{{ProductID: productID, Qty: 1, UnitCost: decimal.NewFromInt(5)}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	blob := []byte("%PDF-1.4 fake receipt")
	fileID, err := SaveReceiptFile(context.Background(), db, nil, userID, orderID, blob, "application/pdf", "invoice.pdf")
	if err != nil {
		t.Fatalf("save receipt: %v", err)
	}

	row, err := LoadReceiptFile(context.Background(), db, orderID, fileID)
	if err != nil {
		t.Fatalf("load receipt: %v", err)
	}
	if string(row.FileBlob) != string(blob) || row.FileName != "invoice.pdf" {
		t.Fatalf("receipt did not round trip, got %q %q", row.FileName, row.FileBlob)
	}

	if _, err := LoadReceiptFile(context.Background(), db, orderID+1, fileID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for wrong order, got %v", err)
	}
}
