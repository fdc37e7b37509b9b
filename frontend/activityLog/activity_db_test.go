package activitylog

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"

	"stockdesk/infrastructure/sqlite"
	"stockdesk/models"
)

func openActivityTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "activity-test.db")
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

func seedLogRows(t *testing.T, db *sqlite.DB) {
	t.Helper()
	admin := models.User{Username: "admin1", PasswordHash: "x", Role: "admin"}
	operator := models.User{Username: "operator1", PasswordHash: "x", Role: "operator"}
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		for _, u := range []*models.User{&admin, &operator} {
			if _, err := tx.NewInsert().Model(u).Exec(ctx); err != nil {
				return err
			}
		}
		logs := []models.ActivityLog{
			{UserID: admin.ID, Action: "settings.update", EntityType: "console_settings", EntityID: "1"},
			{UserID: operator.ID, Action: "intake.create", EntityType: "intake_lines", EntityID: "1"},
			{UserID: operator.ID, Action: "intake.create", EntityType: "intake_lines", EntityID: "2"},
		}
		for i := range logs {
			if _, err := tx.NewInsert().Model(&logs[i]).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed fixtures: %v", err)
	}
}

func TestListActivity_FiltersByActionAndUser(t *testing.T) {
	db := openActivityTestDB(t)
	seedLogRows(t, db)

	all, err := ListActivity(context.Background(), db, Filter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(all))
	}
	// Newest first.
	if all[0].EntityID != "2" {
		t.Fatalf("expected newest row first, got %+v", all[0])
	}

	byAction, err := ListActivity(context.Background(), db, Filter{Action: "intake.create"})
	if err != nil {
		t.Fatalf("list by action: %v", err)
	}
	if len(byAction) != 2 {
		t.Fatalf("expected 2 intake rows, got %d", len(byAction))
	}

	byUser, err := ListActivity(context.Background(), db, Filter{Username: "admin"})
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(byUser) != 1 || byUser[0].Action != "settings.update" {
		t.Fatalf("expected the admin settings row, got %+v", byUser)
	}
}

func TestListActionAndEntityTypes(t *testing.T) {
	db := openActivityTestDB(t)
	seedLogRows(t, db)

	actions, err := ListActionTypes(context.Background(), db)
	if err != nil {
		t.Fatalf("list actions: %v", err)
	}
	if len(actions) != 2 || actions[0] != "intake.create" || actions[1] != "settings.update" {
		t.Fatalf("unexpected actions: %v", actions)
	}

	entities, err := ListEntityTypes(context.Background(), db)
	if err != nil {
		t.Fatalf("list entities: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("unexpected entities: %v", entities)
	}
}
