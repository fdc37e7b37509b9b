package distribution

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"

	"stockdesk/infrastructure/sqlite"
	"stockdesk/ledger"
	"stockdesk/models"
)

func openDistributionTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "distribution-test.db")
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

// seedIntake inserts a user, a product and one graded intake line and returns
// the user and product ids.
func seedIntake(t *testing.T, db *sqlite.DB, passed, refurbished int64) (int64, int64) {
	t.Helper()
	user := models.User{Username: "operator1", PasswordHash: "x", Role: "operator"}
	product := models.Product{Code: "SKU-200", Name: "Filter Papers", ProductType: "accessory"}
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&user).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(&product).Exec(ctx); err != nil {
			return err
		}
		line := models.IntakeLine{
			ProductID:        product.ID,
			ReceivedQty:      passed + refurbished,
			PassedQty:        passed,
			RefurbishedQty:   refurbished,
			Status:           "pending",
			ReceivedByUserID: user.ID,
		}
		_, err := tx.NewInsert().Model(&line).Exec(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("seed fixtures: %v", err)
	}
	return user.ID, product.ID
}

func testConfig() ledger.Config {
	return ledger.Config{
		ExpiredLocation:     ledger.Location{Zone: "Q", Aisle: "00", Shelf: "00", Bin: "EXPIRED"},
		AutoCalculate:       true,
		IntakeEnabled:       true,
		DistributionEnabled: true,
	}
}

func TestSaveSplit_DerivesOfflineFromAvailability(t *testing.T) {
	db := openDistributionTestDB(t)
	userID, productID := seedIntake(t, db, 80, 20)

	input := SplitInput{ProductID: productID, OnlineQty: 60}
	splitID, violations, err := SaveSplit(context.Background(), db, nil, userID, input, testConfig())
	if err != nil {
		t.Fatalf("save split: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}

	var split models.DistributionSplit
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&split).Where("ds.id = ?", splitID).Scan(ctx)
	})
	if err != nil {
		t.Fatalf("load split: %v", err)
	}
	if split.AvailableQty != 100 || split.OnlineQty != 60 || split.OfflineQty != 40 {
		t.Fatalf("expected 100/60/40, got %d/%d/%d", split.AvailableQty, split.OnlineQty, split.OfflineQty)
	}

	remaining, err := ProductAvailability(context.Background(), db, productID)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected nothing left after full split, got %d", remaining)
	}
}

func TestSaveSplit_ManualMismatchReturnsViolations(t *testing.T) {
	db := openDistributionTestDB(t)
	userID, productID := seedIntake(t, db, 50, 0)

	offline := int64(30)
	input := SplitInput{ProductID: productID, OnlineQty: 30, OfflineQty: &offline}
	_, violations, err := SaveSplit(context.Background(), db, nil, userID, input, testConfig())
	if err != nil {
		t.Fatalf("save split: %v", err)
	}
	if len(violations) != 1 || violations[0].Kind != ledger.SumMismatch {
		t.Fatalf("expected exactly one sum mismatch violation, got %v", violations)
	}

	splits, err := ListSplits(context.Background(), db)
	if err != nil {
		t.Fatalf("list splits: %v", err)
	}
	if len(splits) != 0 {
		t.Fatalf("violating split must not be persisted, got %d", len(splits))
	}
}

func TestSaveSplit_NothingAvailable(t *testing.T) {
	db := openDistributionTestDB(t)
	userID, productID := seedIntake(t, db, 10, 0)

	if _, _, err := SaveSplit(context.Background(), db, nil, userID, SplitInput{ProductID: productID, OnlineQty: 10}, testConfig()); err != nil {
		t.Fatalf("first split: %v", err)
	}
	_, _, err := SaveSplit(context.Background(), db, nil, userID, SplitInput{ProductID: productID, OnlineQty: 1}, testConfig())
	if err != ErrNothingAvailable {
		t.Fatalf("expected ErrNothingAvailable, got %v", err)
	}
}

func TestRebalanceSplit_ScalesProportionally(t *testing.T) {
	db := openDistributionTestDB(t)
	userID, productID := seedIntake(t, db, 100, 0)

	offline := int64(40)
	splitID, _, err := SaveSplit(context.Background(), db, nil, userID, SplitInput{ProductID: productID, OnlineQty: 60, OfflineQty: &offline}, testConfig())
	if err != nil {
		t.Fatalf("save split: %v", err)
	}

	// Shrink the backing stock after the split was recorded.
	err = db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewRaw(`UPDATE intake_lines SET passed_qty = 50, received_qty = 50 WHERE product_id = ?`, productID).Exec(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("shrink stock: %v", err)
	}

	changed, err := RebalanceSplit(context.Background(), db, nil, userID, splitID, testConfig())
	if err != nil {
		t.Fatalf("rebalance: %v", err)
	}
	if !changed {
		t.Fatalf("expected the split to change")
	}

	var split models.DistributionSplit
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&split).Where("ds.id = ?", splitID).Scan(ctx)
	})
	if err != nil {
		t.Fatalf("load split: %v", err)
	}
	if split.OnlineQty != 30 || split.OfflineQty != 20 || split.AvailableQty != 50 {
		t.Fatalf("expected 30/20 over 50, got %d/%d over %d", split.OnlineQty, split.OfflineQty, split.AvailableQty)
	}
}

func TestRebalanceSplit_NoChangeWhenSplitFits(t *testing.T) {
	db := openDistributionTestDB(t)
	userID, productID := seedIntake(t, db, 100, 0)

	splitID, _, err := SaveSplit(context.Background(), db, nil, userID, SplitInput{ProductID: productID, OnlineQty: 30}, testConfig())
	if err != nil {
		t.Fatalf("save split: %v", err)
	}

	changed, err := RebalanceSplit(context.Background(), db, nil, userID, splitID, testConfig())
	if err != nil {
		t.Fatalf("rebalance: %v", err)
	}
	if changed {
		t.Fatalf("expected no change for a split that fits")
	}
}
