package purchasing

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	sessioncontext "stockdesk/frontend/shared/context"
	"stockdesk/infrastructure/activity"
	"stockdesk/infrastructure/sqlite"
)

// PurchasingPageQueryHandler renders the order list and create form.
func PurchasingPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		orders, err := ListPurchaseOrders(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load purchase orders", http.StatusInternalServerError)
			return
		}
		products, err := ListProductOptions(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load products", http.StatusInternalServerError)
			return
		}

		data := ListPageData{
			Message:  r.URL.Query().Get("status"),
			Orders:   orders,
			Products: products,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := PurchasingListPage(session, data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render purchasing page", http.StatusInternalServerError)
			return
		}
	}
}

// OrderDetailQueryHandler renders one order with lines and receipts.
func OrderDetailQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			http.Error(w, "invalid purchase order id", http.StatusBadRequest)
			return
		}
		detail, err := LoadPurchaseOrder(r.Context(), db, orderID)
		if errors.Is(err, ErrOrderNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, "failed to load purchase order", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := OrderDetailPage(session, detail, r.URL.Query().Get("status")).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render purchase order", http.StatusInternalServerError)
			return
		}
	}
}

// CreateOrderCommandHandler creates an order from the submitted line rows.
func CreateOrderCommandHandler(db *sqlite.DB, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectPurchasingError(w, r, "invalid form")
			return
		}

		input := POInput{
			Reference: r.FormValue("reference"),
			Supplier:  r.FormValue("supplier"),
			Notes:     r.FormValue("notes"),
		}

		productIDs := r.Form["line_product_id"]
		qtys := r.Form["line_qty"]
		costs := r.Form["line_unit_cost"]
		if len(productIDs) != len(qtys) || len(qtys) != len(costs) {
			redirectPurchasingError(w, r, "malformed line items")
			return
		}
		for i := range productIDs {
			if strings.TrimSpace(productIDs[i]) == "" {
				continue
			}
			productID, err := strconv.ParseInt(strings.TrimSpace(productIDs[i]), 10, 64)
			if err != nil {
				redirectPurchasingError(w, r, "invalid line product")
				return
			}
			qty, err := strconv.ParseInt(strings.TrimSpace(qtys[i]), 10, 64)
			if err != nil {
				redirectPurchasingError(w, r, "line qty must be a number")
				return
			}
			cost, err := decimal.NewFromString(strings.TrimSpace(costs[i]))
			if err != nil {
				redirectPurchasingError(w, r, "unit cost must be a number")
				return
			}
			input.Lines = append(input.Lines, POLineInput{ProductID: productID, Qty: qty, UnitCost: cost})
		}

		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		orderID, err := CreatePurchaseOrder(r.Context(), db, activitySvc, session.UserID, input)
		if err != nil {
			if errors.Is(err, ErrReferenceTaken) {
				redirectPurchasingError(w, r, err.Error())
				return
			}
			redirectPurchasingError(w, r, err.Error())
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/console/purchasing/%d?status=%s", orderID, url.QueryEscape("purchase order created")), http.StatusSeeOther)
	}
}

// OrderStatusCommandHandler applies a status transition.
func OrderStatusCommandHandler(db *sqlite.DB, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			http.Error(w, "invalid purchase order id", http.StatusBadRequest)
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectOrderError(w, r, orderID, "invalid form")
			return
		}

		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		status := strings.TrimSpace(r.FormValue("to_status"))
		err = UpdateOrderStatus(r.Context(), db, activitySvc, session.UserID, orderID, status)
		if errors.Is(err, ErrOrderNotFound) {
			http.NotFound(w, r)
			return
		}
		if errors.Is(err, ErrInvalidTransition) {
			redirectOrderError(w, r, orderID, err.Error())
			return
		}
		if err != nil {
			redirectOrderError(w, r, orderID, "failed to update status")
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/console/purchasing/%d?status=%s", orderID, url.QueryEscape("status updated")), http.StatusSeeOther)
	}
}

// UploadReceiptCommandHandler stores a receipt document against an order.
func UploadReceiptCommandHandler(db *sqlite.DB, activitySvc *activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			http.Error(w, "invalid purchase order id", http.StatusBadRequest)
			return
		}

		blob, mimeType, fileName, err := parseReceiptUpload(r)
		if err != nil {
			redirectOrderError(w, r, orderID, err.Error())
			return
		}
		if len(blob) == 0 {
			redirectOrderError(w, r, orderID, "choose a receipt file")
			return
		}

		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		if _, err := SaveReceiptFile(r.Context(), db, activitySvc, session.UserID, orderID, blob, mimeType, fileName); err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				http.NotFound(w, r)
				return
			}
			redirectOrderError(w, r, orderID, "failed to store receipt")
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/console/purchasing/%d?status=%s", orderID, url.QueryEscape("receipt uploaded")), http.StatusSeeOther)
	}
}

// DownloadReceiptQueryHandler streams a stored receipt document.
func DownloadReceiptQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			http.Error(w, "invalid purchase order id", http.StatusBadRequest)
			return
		}
		fileID, err := strconv.ParseInt(chi.URLParam(r, "fileID"), 10, 64)
		if err != nil || fileID <= 0 {
			http.Error(w, "invalid receipt file id", http.StatusBadRequest)
			return
		}

		row, err := LoadReceiptFile(r.Context(), db, orderID, fileID)
		if errors.Is(err, ErrOrderNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, "failed to load receipt", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", row.FileMIME)
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", row.FileName))
		_, _ = w.Write(row.FileBlob)
	}
}

// OrderPDFQueryHandler streams the printable order sheet.
func OrderPDFQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			http.Error(w, "invalid purchase order id", http.StatusBadRequest)
			return
		}
		detail, err := LoadPurchaseOrder(r.Context(), db, orderID)
		if errors.Is(err, ErrOrderNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, "failed to load purchase order", http.StatusInternalServerError)
			return
		}

		pdfBytes, err := renderPurchaseOrderPDF(detail, time.Now())
		if err != nil {
			http.Error(w, "failed to render pdf", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=po-%d.pdf", detail.Order.ID))
		_, _ = w.Write(pdfBytes)
	}
}

func parseOrderID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

// parseReceiptUpload accepts an image or a PDF up to 5MB.
func parseReceiptUpload(r *http.Request) (blob []byte, mimeType, fileName string, err error) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type"))), "multipart/form-data") {
		return nil, "", "", nil
	}

	file, header, err := r.FormFile("receipt_file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", "", nil
		}
		return nil, "", "", err
	}
	defer file.Close()

	const maxReceipt = 5 << 20 // 5MB
	data, err := io.ReadAll(io.LimitReader(file, maxReceipt+1))
	if err != nil {
		return nil, "", "", err
	}
	if len(data) == 0 {
		return nil, "", "", nil
	}
	if len(data) > maxReceipt {
		return nil, "", "", errors.New("receipt must be 5MB or less")
	}

	mimeType = strings.TrimSpace(header.Header.Get("Content-Type"))
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") && mimeType != "application/pdf" {
		return nil, "", "", errors.New("receipt must be an image or a pdf")
	}

	fileName = strings.TrimSpace(header.Filename)
	if fileName == "" {
		fileName = "receipt"
	}
	return data, mimeType, fileName, nil
}

func redirectPurchasingError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/console/purchasing?status="+url.QueryEscape(msg), http.StatusSeeOther)
}

func redirectOrderError(w http.ResponseWriter, r *http.Request, orderID int64, msg string) {
	http.Redirect(w, r, fmt.Sprintf("/console/purchasing/%d?status=%s", orderID, url.QueryEscape(msg)), http.StatusSeeOther)
}
