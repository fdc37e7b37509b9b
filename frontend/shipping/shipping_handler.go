package shipping

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	sessioncontext "stockdesk/frontend/shared/context"
	"stockdesk/infrastructure/activity"
	"stockdesk/infrastructure/sqlite"
)

// ShippingPageQueryHandler renders zones, methods and the assignment forms.
func ShippingPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		zones, err := ListZones(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load zones", http.StatusInternalServerError)
			return
		}
		methods, err := ListMethods(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load methods", http.StatusInternalServerError)
			return
		}
		allMethods, err := ListAllMethods(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load methods", http.StatusInternalServerError)
			return
		}

		data := PageData{
			Message:    r.URL.Query().Get("status"),
			Zones:      zones,
			Methods:    methods,
			AllMethods: allMethods,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ShippingPage(session, data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render shipping page", http.StatusInternalServerError)
			return
		}
	}
}

// CreateZoneCommandHandler stores a new shipping zone.
func CreateZoneCommandHandler(db *sqlite.DB, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectShippingError(w, r, "invalid form")
			return
		}
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		_, err := CreateZone(r.Context(), db, activitySvc, session.UserID, r.FormValue("name"), r.FormValue("regions"))
		if err != nil {
			redirectShippingError(w, r, err.Error())
			return
		}
		http.Redirect(w, r, "/console/shipping?status="+url.QueryEscape("zone created"), http.StatusSeeOther)
	}
}

// CreateMethodCommandHandler stores a new shipping method.
func CreateMethodCommandHandler(db *sqlite.DB, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectShippingError(w, r, "invalid form")
			return
		}

		baseRate, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("base_rate")))
		if err != nil {
			redirectShippingError(w, r, "base rate must be a number")
			return
		}
		perKgRate, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("per_kg_rate")))
		if err != nil {
			redirectShippingError(w, r, "per kg rate must be a number")
			return
		}

		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		_, err = CreateMethod(r.Context(), db, activitySvc, session.UserID, r.FormValue("name"), r.FormValue("carrier"), baseRate, perKgRate)
		if err != nil {
			redirectShippingError(w, r, err.Error())
			return
		}
		http.Redirect(w, r, "/console/shipping?status="+url.QueryEscape("method created"), http.StatusSeeOther)
	}
}

// ToggleMethodCommandHandler enables or disables a method.
func ToggleMethodCommandHandler(db *sqlite.DB, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectShippingError(w, r, "invalid form")
			return
		}
		methodID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("method_id")), 10, 64)
		if err != nil || methodID <= 0 {
			redirectShippingError(w, r, "invalid method")
			return
		}
		enabled := r.FormValue("enabled") == "1"

		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		err = SetMethodEnabled(r.Context(), db, activitySvc, session.UserID, methodID, enabled)
		if errors.Is(err, ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			redirectShippingError(w, r, "failed to update method")
			return
		}
		http.Redirect(w, r, "/console/shipping?status="+url.QueryEscape("method updated"), http.StatusSeeOther)
	}
}

// AssignMethodCommandHandler links or unlinks a method and a zone.
func AssignMethodCommandHandler(db *sqlite.DB, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectShippingError(w, r, "invalid form")
			return
		}
		zoneID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("zone_id")), 10, 64)
		if err != nil || zoneID <= 0 {
			redirectShippingError(w, r, "invalid zone")
			return
		}
		methodID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("method_id")), 10, 64)
		if err != nil || methodID <= 0 {
			redirectShippingError(w, r, "invalid method")
			return
		}

		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		if r.FormValue("action") == "unassign" {
			err = UnassignMethodFromZone(r.Context(), db, activitySvc, session.UserID, zoneID, methodID)
		} else {
			err = AssignMethodToZone(r.Context(), db, activitySvc, session.UserID, zoneID, methodID)
		}
		if err != nil {
			redirectShippingError(w, r, err.Error())
			return
		}
		http.Redirect(w, r, "/console/shipping?status="+url.QueryEscape("zone assignment updated"), http.StatusSeeOther)
	}
}

func redirectShippingError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/console/shipping?status="+url.QueryEscape(msg), http.StatusSeeOther)
}
