package intake

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sessioncontext "stockdesk/frontend/shared/context"
	"stockdesk/frontend/settings"
	"stockdesk/infrastructure/activity"
	"stockdesk/infrastructure/sqlite"
	"stockdesk/ledger"
)

// IntakePageQueryHandler renders the intake form and recent lines.
func IntakePageQueryHandler(db *sqlite.DB) http.HandlerFunc {
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

		products, err := ListProductOptions(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load products", http.StatusInternalServerError)
			return
		}
		lines, err := ListIntakeLines(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load intake lines", http.StatusInternalServerError)
			return
		}

		message := r.URL.Query().Get("status")
		if !cfg.IntakeEnabled {
			message = "Stock intake is currently disabled."
		}

		data := PageData{Message: message, Products: products, Lines: lines}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := IntakePage(session, data, cfg).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render intake page", http.StatusInternalServerError)
			return
		}
	}
}

// CreateIntakeCommandHandler reconciles and stores one intake line.
func CreateIntakeCommandHandler(db *sqlite.DB, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectIntakeError(w, r, "invalid form")
			return
		}

		cfg, err := settings.LoadConfig(r.Context(), db)
		if err != nil {
			redirectIntakeError(w, r, "failed to load settings")
			return
		}

		productID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("product_id")), 10, 64)
		if err != nil || productID <= 0 {
			redirectIntakeError(w, r, "select a product")
			return
		}

		input := IntakeInput{ProductID: productID, Notes: strings.TrimSpace(r.FormValue("notes"))}
		if input.ReceivedQty, err = parseQty(r.FormValue("received_qty")); err != nil {
			redirectIntakeError(w, r, "received qty must be a number")
			return
		}
		if input.ReceivedQty <= 0 {
			redirectIntakeError(w, r, "received qty must be greater than 0")
			return
		}
		if input.DamagedQty, err = parseQty(r.FormValue("damaged_qty")); err != nil {
			redirectIntakeError(w, r, "damaged qty must be a number")
			return
		}
		if input.ExpiredQty, err = parseQty(r.FormValue("expired_qty")); err != nil {
			redirectIntakeError(w, r, "expired qty must be a number")
			return
		}
		if input.RefurbishedQty, err = parseQty(r.FormValue("refurbished_qty")); err != nil {
			redirectIntakeError(w, r, "refurbished qty must be a number")
			return
		}
		if input.PassedQty, err = parseQty(r.FormValue("passed_qty")); err != nil {
			redirectIntakeError(w, r, "passed qty must be a number")
			return
		}

		if poRaw := strings.TrimSpace(r.FormValue("purchase_order_id")); poRaw != "" {
			poID, err := strconv.ParseInt(poRaw, 10, 64)
			if err != nil || poID <= 0 {
				redirectIntakeError(w, r, "invalid purchase order")
				return
			}
			input.PurchaseOrderID = &poID
		}

		input.HasExpiry = r.FormValue("has_expiry") != ""
		if input.HasExpiry {
			date, err := time.Parse("2006-01-02", strings.TrimSpace(r.FormValue("expiry_date")))
			if err != nil {
				redirectIntakeError(w, r, "invalid expiry date")
				return
			}
			input.ExpiryDate = &date
		}

		input.Locations = map[ledger.Category]ledger.Location{
			ledger.Passed:      locationFromForm(r, "passed"),
			ledger.Refurbished: locationFromForm(r, "refurbished"),
			ledger.Damaged:     locationFromForm(r, "damaged"),
		}

		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		_, violations, err := SaveIntake(r.Context(), db, activitySvc, session.UserID, input, cfg)
		if err != nil {
			if err == ErrIntakeDisabled {
				redirectIntakeError(w, r, err.Error())
				return
			}
			redirectIntakeError(w, r, "failed to save intake")
			return
		}
		if len(violations) > 0 {
			messages := make([]string, 0, len(violations))
			for _, v := range violations {
				messages = append(messages, v.Message())
			}
			redirectIntakeError(w, r, strings.Join(messages, "; "))
			return
		}

		http.Redirect(w, r, "/console/intake?status="+url.QueryEscape("intake recorded"), http.StatusSeeOther)
	}
}

// BulkExpiryCommandHandler applies one expiry date to all pending
// expiry-tracked lines.
func BulkExpiryCommandHandler(db *sqlite.DB, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectIntakeError(w, r, "invalid form")
			return
		}

		cfg, err := settings.LoadConfig(r.Context(), db)
		if err != nil {
			redirectIntakeError(w, r, "failed to load settings")
			return
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(r.FormValue("expiry_date")))
		if err != nil {
			redirectIntakeError(w, r, "invalid expiry date")
			return
		}

		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		affected, err := ApplyExpiryDateBulk(r.Context(), db, activitySvc, session.UserID, date, cfg)
		if err != nil {
			if err == ErrIntakeDisabled {
				redirectIntakeError(w, r, err.Error())
				return
			}
			redirectIntakeError(w, r, "failed to apply expiry date")
			return
		}

		status := fmt.Sprintf("expiry date applied, %d lines changed", affected)
		http.Redirect(w, r, "/console/intake?status="+url.QueryEscape(status), http.StatusSeeOther)
	}
}

// parseQty accepts empty input as 0 and rejects non-numeric text rather than
// silently zeroing it.
func parseQty(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func locationFromForm(r *http.Request, prefix string) ledger.Location {
	return ledger.Location{
		Zone:  strings.TrimSpace(r.FormValue(prefix + "_zone")),
		Aisle: strings.TrimSpace(r.FormValue(prefix + "_aisle")),
		Shelf: strings.TrimSpace(r.FormValue(prefix + "_shelf")),
		Bin:   strings.TrimSpace(r.FormValue(prefix + "_bin")),
	}
}

func redirectIntakeError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/console/intake?status="+url.QueryEscape(msg), http.StatusSeeOther)
}
