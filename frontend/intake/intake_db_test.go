package intake

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"stockdesk/infrastructure/sqlite"
	"stockdesk/ledger"
	"stockdesk/models"
)

func openIntakeTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "intake-test.db")
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

func seedUserAndProduct(t *testing.T, db *sqlite.DB, productType string) (int64, int64) {
	t.Helper()
	user := models.User{Username: "operator1", PasswordHash: "x", Role: "operator"}
	product := models.Product{Code: "SKU-100", Name: "House Blend", ProductType: productType}
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

func testConfig() ledger.Config {
	return ledger.Config{
		ExpiredLocation:     ledger.Location{Zone: "Q", Aisle: "00", Shelf: "00", Bin: "EXPIRED"},
		AutoCalculate:       true,
		IntakeEnabled:       true,
		DistributionEnabled: true,
	}
}

func fullLocations() map[ledger.Category]ledger.Location {
	return map[ledger.Category]ledger.Location{
		ledger.Passed:      {Zone: "A", Aisle: "01", Shelf: "02", Bin: "B1"},
		ledger.Refurbished: {Zone: "B", Aisle: "02", Shelf: "01", Bin: "B2"},
		ledger.Damaged:     {Zone: "C", Aisle: "03", Shelf: "03", Bin: "B3"},
	}
}

func TestSaveIntake_AutoCalculatesPassedAndStoresLocations(t *testing.T) {
	db := openIntakeTestDB(t)
	userID, productID := seedUserAndProduct(t, db, "equipment")

	input := IntakeInput{
		ProductID:   productID,
		ReceivedQty: 100,
		DamagedQty:  20,
		ExpiredQty:  10,
		Locations:   fullLocations(),
	}
	lineID, violations, err := SaveIntake(context.Background(), db, nil, userID, input, testConfig())
	if err != nil {
		t.Fatalf("save intake: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}

	var line models.IntakeLine
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&line).Where("il.id = ?", lineID).Scan(ctx)
	})
	if err != nil {
		t.Fatalf("load line: %v", err)
	}
	if line.PassedQty != 70 {
		t.Fatalf("expected derived passed qty 70, got %d", line.PassedQty)
	}
	if line.HasExpiry {
		t.Fatalf("non-consumable product must not track expiry")
	}

	var locs []models.IntakeLocation
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&locs).Where("iloc.intake_line_id = ?", lineID).Scan(ctx)
	})
	if err != nil {
		t.Fatalf("load locations: %v", err)
	}
	// passed, damaged and expired carry quantity; refurbished is zero.
	if len(locs) != 3 {
		t.Fatalf("expected 3 location rows, got %d", len(locs))
	}
	for _, loc := range locs {
		if loc.Category == string(ledger.Expired) && loc.Bin != "EXPIRED" {
			t.Fatalf("expired stock must use the configured default location, got %+v", loc)
		}
	}
}

func TestSaveIntake_ManualMismatchReturnsViolationsWithoutWriting(t *testing.T) {
	db := openIntakeTestDB(t)
	userID, productID := seedUserAndProduct(t, db, "equipment")

	cfg := testConfig()
	cfg.AutoCalculate = false
	input := IntakeInput{
		ProductID:   productID,
		ReceivedQty: 50,
		DamagedQty:  10,
		PassedQty:   45,
		Locations:   fullLocations(),
	}
	_, violations, err := SaveIntake(context.Background(), db, nil, userID, input, cfg)
	if err != nil {
		t.Fatalf("save intake: %v", err)
	}
	if len(violations) == 0 {
		t.Fatalf("expected a sum mismatch violation")
	}

	lines, err := ListIntakeLines(context.Background(), db)
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("violating intake must not be persisted, got %d lines", len(lines))
	}
}

func TestSaveIntake_PastExpiryCollapsesToExpired(t *testing.T) {
	db := openIntakeTestDB(t)
	userID, productID := seedUserAndProduct(t, db, "coffee")

	past := time.Now().AddDate(0, 0, -3)
	input := IntakeInput{
		ProductID:   productID,
		ReceivedQty: 40,
		DamagedQty:  5,
		HasExpiry:   true,
		ExpiryDate:  &past,
		Locations:   fullLocations(),
	}
	lineID, violations, err := SaveIntake(context.Background(), db, nil, userID, input, testConfig())
	if err != nil {
		t.Fatalf("save intake: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}

	var line models.IntakeLine
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&line).Where("il.id = ?", lineID).Scan(ctx)
	})
	if err != nil {
		t.Fatalf("load line: %v", err)
	}
	if line.ExpiredQty != 40 || line.PassedQty != 0 || line.DamagedQty != 0 {
		t.Fatalf("expected full collapse to expired, got passed=%d damaged=%d expired=%d",
			line.PassedQty, line.DamagedQty, line.ExpiredQty)
	}
}

func TestSaveIntake_DisabledFlag(t *testing.T) {
	db := openIntakeTestDB(t)
	userID, productID := seedUserAndProduct(t, db, "equipment")

	cfg := testConfig()
	cfg.IntakeEnabled = false
	input := IntakeInput{ProductID: productID, ReceivedQty: 10, Locations: fullLocations()}
	_, _, err := SaveIntake(context.Background(), db, nil, userID, input, cfg)
	if err != ErrIntakeDisabled {
		t.Fatalf("expected ErrIntakeDisabled, got %v", err)
	}
}

func TestApplyExpiryDateBulk_CountsOnlyChangedLines(t *testing.T) {
	db := openIntakeTestDB(t)
	userID, productID := seedUserAndProduct(t, db, "coffee")

	future := time.Now().AddDate(1, 0, 0)
	cfg := testConfig()

	// One line tracking a future expiry date and one untracked line.
	tracked := IntakeInput{
		ProductID:   productID,
		ReceivedQty: 30,
		DamagedQty:  6,
		HasExpiry:   true,
		ExpiryDate:  &future,
		Locations:   fullLocations(),
	}
	if _, _, err := SaveIntake(context.Background(), db, nil, userID, tracked, cfg); err != nil {
		t.Fatalf("save tracked intake: %v", err)
	}
	untracked := IntakeInput{ProductID: productID, ReceivedQty: 15, Locations: fullLocations()}
	if _, _, err := SaveIntake(context.Background(), db, nil, userID, untracked, cfg); err != nil {
		t.Fatalf("save untracked intake: %v", err)
	}

	past := time.Now().AddDate(0, 0, -1)
	affected, err := ApplyExpiryDateBulk(context.Background(), db, nil, userID, past, cfg)
	if err != nil {
		t.Fatalf("bulk expiry: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 affected line, got %d", affected)
	}

	var lines []models.IntakeLine
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&lines).OrderExpr("il.id ASC").Scan(ctx)
	})
	if err != nil {
		t.Fatalf("load lines: %v", err)
	}
	if lines[0].ExpiredQty != 30 || lines[0].PassedQty != 0 {
		t.Fatalf("tracked line should collapse to expired, got %+v", lines[0])
	}
	if lines[1].ExpiredQty != 0 || lines[1].PassedQty != 15 {
		t.Fatalf("untracked line must not change, got %+v", lines[1])
	}
}
