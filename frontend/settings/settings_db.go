package settings

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"stockdesk/infrastructure/activity"
	"stockdesk/infrastructure/sqlite"
	"stockdesk/ledger"
	"stockdesk/models"
)

// LoadSettings returns the single operational settings row.
func LoadSettings(ctx context.Context, db *sqlite.DB) (models.ConsoleSettings, error) {
	var row models.ConsoleSettings
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&row).Where("cs.id = 1").Limit(1).Scan(ctx)
	})
	return row, err
}

// LoadConfig loads the settings row and converts it into the engine
// configuration injected at every reconciliation call site.
func LoadConfig(ctx context.Context, db *sqlite.DB) (ledger.Config, error) {
	row, err := LoadSettings(ctx, db)
	if err != nil {
		return ledger.Config{}, err
	}
	return ledger.Config{
		ExpiredLocation: ledger.Location{
			Zone:  row.ExpiredZone,
			Aisle: row.ExpiredAisle,
			Shelf: row.ExpiredShelf,
			Bin:   row.ExpiredBin,
		},
		AutoCalculate:       row.AutoCalculate,
		IntakeEnabled:       row.IntakeEnabled,
		DistributionEnabled: row.DistributionEnabled,
	}, nil
}

// SaveSettings persists the settings row and records the change.
func SaveSettings(ctx context.Context, db *sqlite.DB, activitySvc *activity.Service, userID int64, updated models.ConsoleSettings) error {
	updated.ID = 1
	updated.ExpiredZone = strings.TrimSpace(updated.ExpiredZone)
	updated.ExpiredAisle = strings.TrimSpace(updated.ExpiredAisle)
	updated.ExpiredShelf = strings.TrimSpace(updated.ExpiredShelf)
	updated.ExpiredBin = strings.TrimSpace(updated.ExpiredBin)

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.ConsoleSettings
		if err := tx.NewSelect().Model(&before).Where("cs.id = 1").Limit(1).Scan(ctx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE console_settings SET
  expired_zone = ?, expired_aisle = ?, expired_shelf = ?, expired_bin = ?,
  auto_calculate = ?, intake_enabled = ?, distribution_enabled = ?,
  updated_at = CURRENT_TIMESTAMP
WHERE id = 1`,
			updated.ExpiredZone, updated.ExpiredAisle, updated.ExpiredShelf, updated.ExpiredBin,
			updated.AutoCalculate, updated.IntakeEnabled, updated.DistributionEnabled); err != nil {
			return err
		}
		if activitySvc != nil {
			return activitySvc.Write(ctx, tx, userID, "settings.update", "console_settings", "1", before, updated)
		}
		return nil
	})
}
