package products

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	sessioncontext "stockdesk/frontend/shared/context"
	"stockdesk/infrastructure/activity"
	"stockdesk/infrastructure/sqlite"
)

func ProductsPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		message := r.URL.Query().Get("status")
		if message == "" {
			message = "Upload CSV with header: code,name,type"
		}
		rows, err := ListProducts(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load products", http.StatusInternalServerError)
			return
		}

		data := PageData{Message: message, Records: rows}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ProductsPage(session, data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render products page", http.StatusInternalServerError)
			return
		}
	}
}

func ProductsImportCommandHandler(db *sqlite.DB, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Redirect(w, r, "/console/products?status="+url.QueryEscape("Error: invalid upload"), http.StatusSeeOther)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Redirect(w, r, "/console/products?status="+url.QueryEscape("Error: file is required"), http.StatusSeeOther)
			return
		}
		defer file.Close()

		summary, err := ImportCSV(r.Context(), db, activitySvc, session.UserID, file)
		if err != nil {
			http.Redirect(w, r, "/console/products?status="+url.QueryEscape("Error: "+err.Error()), http.StatusSeeOther)
			return
		}

		status := fmt.Sprintf("Imported: %d inserted, %d updated, %d errors", summary.Inserted, summary.Updated, summary.Errors)
		http.Redirect(w, r, "/console/products?status="+url.QueryEscape(status), http.StatusSeeOther)
	}
}

func ProductsDeleteCommandHandler(db *sqlite.DB, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/console/products?status="+url.QueryEscape("Invalid delete form"), http.StatusSeeOther)
			return
		}
		ids := parseIDs(r.Form["product_id"])
		if len(ids) == 0 {
			http.Redirect(w, r, "/console/products?status="+url.QueryEscape("Select at least one product"), http.StatusSeeOther)
			return
		}

		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		deleted, failed, err := DeleteProducts(r.Context(), db, activitySvc, session.UserID, ids)
		if err != nil {
			http.Redirect(w, r, "/console/products?status="+url.QueryEscape("Failed to delete products"), http.StatusSeeOther)
			return
		}

		status := fmt.Sprintf("Deleted %d products", deleted)
		if deleted == 0 && failed > 0 {
			status = "No products deleted (in use or missing)"
		} else if failed > 0 {
			status = fmt.Sprintf("Deleted %d products, %d could not be deleted", deleted, failed)
		}
		http.Redirect(w, r, "/console/products?status="+url.QueryEscape(status), http.StatusSeeOther)
	}
}

func ProductDeleteOneCommandHandler(db *sqlite.DB, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Redirect(w, r, "/console/products?status="+url.QueryEscape("Invalid product id"), http.StatusSeeOther)
			return
		}

		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		deleted, failed, err := DeleteProducts(r.Context(), db, activitySvc, session.UserID, []int64{id})
		if err != nil {
			http.Redirect(w, r, "/console/products?status="+url.QueryEscape("Failed to delete product"), http.StatusSeeOther)
			return
		}

		status := "No product deleted"
		if deleted == 1 {
			status = "Deleted 1 product"
		} else if failed > 0 {
			status = "Product could not be deleted (in use or missing)"
		}
		http.Redirect(w, r, "/console/products?status="+url.QueryEscape(status), http.StatusSeeOther)
	}
}

func parseIDs(values []string) []int64 {
	ids := make([]int64, 0, len(values))
	for _, raw := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
