package activitylog

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"stockdesk/infrastructure/sqlite"
)

// ListActivity returns filtered log rows newest first.
func ListActivity(ctx context.Context, db *sqlite.DB, filter Filter) ([]LogRowView, error) {
	rows := make([]LogRowView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := `
SELECT al.id, u.username, al.action, al.entity_type, al.entity_id,
       COALESCE(al.before_json, '') AS before_json,
       COALESCE(al.after_json, '') AS after_json,
       strftime('%d/%m/%Y %H:%M', al.created_at) AS created_at
FROM activity_logs al
JOIN users u ON u.id = al.user_id`
		conds := make([]string, 0)
		args := make([]any, 0)
		if filter.Action != "" {
			conds = append(conds, "al.action = ?")
			args = append(args, filter.Action)
		}
		if filter.EntityType != "" {
			conds = append(conds, "al.entity_type = ?")
			args = append(args, filter.EntityType)
		}
		if filter.Username != "" {
			conds = append(conds, "u.username LIKE ?")
			args = append(args, "%"+filter.Username+"%")
		}
		if len(conds) > 0 {
			q += " WHERE " + strings.Join(conds, " AND ")
		}
		q += " ORDER BY al.id DESC LIMIT 500"
		return tx.NewRaw(q, args...).Scan(ctx, &rows)
	})
	return rows, err
}

// ListActionTypes returns the distinct actions seen in the log, for the
// filter dropdown.
func ListActionTypes(ctx context.Context, db *sqlite.DB) ([]string, error) {
	out := make([]string, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT DISTINCT action FROM activity_logs ORDER BY action ASC`).Scan(ctx, &out)
	})
	return out, err
}

// ListEntityTypes returns the distinct entity types seen in the log.
func ListEntityTypes(ctx context.Context, db *sqlite.DB) ([]string, error) {
	out := make([]string, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT DISTINCT entity_type FROM activity_logs ORDER BY entity_type ASC`).Scan(ctx, &out)
	})
	return out, err
}
