package exports

import (
	"log/slog"
	"net/http"

	sessioncontext "stockdesk/frontend/shared/context"
	"stockdesk/infrastructure/sqlite"
)

func ExportsPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		runs, err := listExportRuns(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load export history", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ExportsPage(session, PageData{Message: r.URL.Query().Get("status"), Runs: runs}).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render exports page", http.StatusInternalServerError)
			return
		}
	}
}

func IntakeExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=intake.csv")
		if err := writeIntakeCSV(r.Context(), db, w); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
		if err := recordExportRun(r.Context(), db, sessionUserIDFromContext(r), "intake_csv"); err != nil {
			slog.Error("record export run failed", slog.String("type", "intake_csv"), slog.Any("err", err))
		}
	}
}

func DistributionExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=distribution.csv")
		if err := writeDistributionCSV(r.Context(), db, w); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
		if err := recordExportRun(r.Context(), db, sessionUserIDFromContext(r), "distribution_csv"); err != nil {
			slog.Error("record export run failed", slog.String("type", "distribution_csv"), slog.Any("err", err))
		}
	}
}

func ActivityExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=activity.csv")
		if err := writeActivityCSV(r.Context(), db, w); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
		if err := recordExportRun(r.Context(), db, sessionUserIDFromContext(r), "activity_csv"); err != nil {
			slog.Error("record export run failed", slog.String("type", "activity_csv"), slog.Any("err", err))
		}
	}
}

func sessionUserIDFromContext(r *http.Request) *int64 {
	session, ok := sessioncontext.GetSessionFromContext(r.Context())
	if !ok {
		return nil
	}
	return &session.UserID
}
