package activitylog

import (
	"net/http"
	"strings"

	sessioncontext "stockdesk/frontend/shared/context"
	"stockdesk/infrastructure/sqlite"
)

// ActivityPageQueryHandler renders the filterable activity log.
func ActivityPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		filter := Filter{
			Action:     strings.TrimSpace(r.URL.Query().Get("action")),
			EntityType: strings.TrimSpace(r.URL.Query().Get("entity_type")),
			Username:   strings.TrimSpace(r.URL.Query().Get("username")),
		}

		rows, err := ListActivity(r.Context(), db, filter)
		if err != nil {
			http.Error(w, "failed to load activity", http.StatusInternalServerError)
			return
		}
		actions, err := ListActionTypes(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load activity", http.StatusInternalServerError)
			return
		}
		entities, err := ListEntityTypes(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load activity", http.StatusInternalServerError)
			return
		}

		data := PageData{Filter: filter, Rows: rows, ActionTypes: actions, EntityTypes: entities}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ActivityPage(session, data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render activity page", http.StatusInternalServerError)
			return
		}
	}
}
