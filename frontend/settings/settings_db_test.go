package settings

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"stockdesk/infrastructure/sqlite"
	"stockdesk/models"
)

func openSettingsTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "settings-test.db")
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

func TestLoadConfig_DefaultsSeededByMigration(t *testing.T) {
	db := openSettingsTestDB(t)

	cfg, err := LoadConfig(context.Background(), db)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.AutoCalculate || !cfg.IntakeEnabled || !cfg.DistributionEnabled {
		t.Fatalf("expected default feature flags on, got %+v", cfg)
	}
	if !cfg.ExpiredLocation.Complete() {
		t.Fatalf("expected complete default expired location, got %+v", cfg.ExpiredLocation)
	}
}

func TestSaveSettings_RoundTrips(t *testing.T) {
	db := openSettingsTestDB(t)

	updated := models.ConsoleSettings{
		ExpiredZone:         "Z9",
		ExpiredAisle:        "A1",
		ExpiredShelf:        "S2",
		ExpiredBin:          "QUARANTINE",
		AutoCalculate:       false,
		IntakeEnabled:       true,
		DistributionEnabled: false,
	}
	if err := SaveSettings(context.Background(), db, nil, 1, updated); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	cfg, err := LoadConfig(context.Background(), db)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AutoCalculate {
		t.Fatalf("expected auto-calculate off")
	}
	if cfg.DistributionEnabled {
		t.Fatalf("expected distribution disabled")
	}
	if cfg.ExpiredLocation.Bin != "QUARANTINE" {
		t.Fatalf("expected QUARANTINE bin, got %q", cfg.ExpiredLocation.Bin)
	}
}
