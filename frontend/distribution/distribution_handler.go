package distribution

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	sessioncontext "stockdesk/frontend/shared/context"
	"stockdesk/frontend/settings"
	"stockdesk/infrastructure/activity"
	"stockdesk/infrastructure/sqlite"
)

// DistributionPageQueryHandler renders availability and recent splits.
func DistributionPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		cfg, err := settings.LoadConfig(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load settings", http.StatusInternalServerError)
			return
		}

		availability, err := ListAvailability(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load availability", http.StatusInternalServerError)
			return
		}
		splits, err := ListSplits(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load splits", http.StatusInternalServerError)
			return
		}

		message := r.URL.Query().Get("status")
		if !cfg.DistributionEnabled {
			message = "Distribution is currently disabled."
		}

		data := PageData{Message: message, Availability: availability, Splits: splits}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := DistributionPage(session, data, cfg).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render distribution page", http.StatusInternalServerError)
			return
		}
	}
}

// CreateSplitCommandHandler records one online/offline split.
func CreateSplitCommandHandler(db *sqlite.DB, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectDistributionError(w, r, "invalid form")
			return
		}

		cfg, err := settings.LoadConfig(r.Context(), db)
		if err != nil {
			redirectDistributionError(w, r, "failed to load settings")
			return
		}

		productID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("product_id")), 10, 64)
		if err != nil || productID <= 0 {
			redirectDistributionError(w, r, "select a product")
			return
		}

		input := SplitInput{ProductID: productID}
		if input.OnlineQty, err = parseQty(r.FormValue("online_qty")); err != nil {
			redirectDistributionError(w, r, "online qty must be a number")
			return
		}
		if raw := strings.TrimSpace(r.FormValue("offline_qty")); raw != "" {
			offline, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				redirectDistributionError(w, r, "offline qty must be a number")
				return
			}
			input.OfflineQty = &offline
		}

		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		_, violations, err := SaveSplit(r.Context(), db, activitySvc, session.UserID, input, cfg)
		if err != nil {
			if err == ErrDistributionDisabled || err == ErrNothingAvailable {
				redirectDistributionError(w, r, err.Error())
				return
			}
			redirectDistributionError(w, r, "failed to save split")
			return
		}
		if len(violations) > 0 {
			messages := make([]string, 0, len(violations))
			for _, v := range violations {
				messages = append(messages, v.Message())
			}
			redirectDistributionError(w, r, strings.Join(messages, "; "))
			return
		}

		http.Redirect(w, r, "/console/distribution?status="+url.QueryEscape("split recorded"), http.StatusSeeOther)
	}
}

// RebalanceSplitCommandHandler shrinks one split to fit current availability.
func RebalanceSplitCommandHandler(db *sqlite.DB, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectDistributionError(w, r, "invalid form")
			return
		}

		cfg, err := settings.LoadConfig(r.Context(), db)
		if err != nil {
			redirectDistributionError(w, r, "failed to load settings")
			return
		}

		splitID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("split_id")), 10, 64)
		if err != nil || splitID <= 0 {
			redirectDistributionError(w, r, "invalid split")
			return
		}

		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		changed, err := RebalanceSplit(r.Context(), db, activitySvc, session.UserID, splitID, cfg)
		if err != nil {
			if err == ErrDistributionDisabled {
				redirectDistributionError(w, r, err.Error())
				return
			}
			redirectDistributionError(w, r, "failed to rebalance split")
			return
		}

		status := "split already fits available stock"
		if changed {
			status = "split rebalanced"
		}
		http.Redirect(w, r, "/console/distribution?status="+url.QueryEscape(status), http.StatusSeeOther)
	}
}

func parseQty(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func redirectDistributionError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/console/distribution?status="+url.QueryEscape(msg), http.StatusSeeOther)
}
