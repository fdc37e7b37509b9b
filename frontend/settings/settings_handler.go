package settings

import (
	"net/http"
	"net/url"

	sessioncontext "stockdesk/frontend/shared/context"
	"stockdesk/infrastructure/activity"
	"stockdesk/infrastructure/sqlite"
	"stockdesk/models"
)

func SettingsPageHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		row, err := LoadSettings(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load settings", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := SettingsPage(session, row, r.URL.Query().Get("status")).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render settings page", http.StatusInternalServerError)
			return
		}
	}
}

func SettingsUpdateHandler(db *sqlite.DB, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/console/settings?status="+url.QueryEscape("invalid form"), http.StatusSeeOther)
			return
		}

		updated := models.ConsoleSettings{
			ExpiredZone:         r.FormValue("expired_zone"),
			ExpiredAisle:        r.FormValue("expired_aisle"),
			ExpiredShelf:        r.FormValue("expired_shelf"),
			ExpiredBin:          r.FormValue("expired_bin"),
			AutoCalculate:       r.FormValue("auto_calculate") != "",
			IntakeEnabled:       r.FormValue("intake_enabled") != "",
			DistributionEnabled: r.FormValue("distribution_enabled") != "",
		}
		if updated.ExpiredZone == "" || updated.ExpiredAisle == "" || updated.ExpiredShelf == "" || updated.ExpiredBin == "" {
			http.Redirect(w, r, "/console/settings?status="+url.QueryEscape("expired location must be complete"), http.StatusSeeOther)
			return
		}

		if err := SaveSettings(r.Context(), db, activitySvc, session.UserID, updated); err != nil {
			http.Redirect(w, r, "/console/settings?status="+url.QueryEscape("save failed"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/console/settings?status="+url.QueryEscape("saved"), http.StatusSeeOther)
	}
}
