package http

import (
	"net/http"

	activitypage "stockdesk/frontend/activityLog"
	adminusers "stockdesk/frontend/adminUsers"
	"stockdesk/frontend/distribution"
	exportspage "stockdesk/frontend/exports"
	"stockdesk/frontend/intake"
	"stockdesk/frontend/login"
	"stockdesk/frontend/products"
	"stockdesk/frontend/purchasing"
	"stockdesk/frontend/settings"
	"stockdesk/frontend/shipping"
	"stockdesk/infrastructure/rbac"

	"github.com/go-chi/chi/v5"
)

// RegisterLoginRoutes registers login/logout routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Get("/login", login.GetLoginScreenHandler)
	s.router.Post("/login", login.CreateLoginHandler(s.DB, s.SessionCache, s.UserCache))
	s.router.Post("/logout", login.LogoutHandler(s.DB, s.SessionCache))
}

// RegisterAdminRoutes registers admin-only routes.
func (s *Server) RegisterAdminRoutes(r chi.Router) chi.Router {
	s.Rbac.Add(rbac.RoleAdmin, "ADMIN_USERS_LIST_VIEW", http.MethodGet, "/console/admin/users")
	r.Get("/admin/users", adminusers.UsersPageQueryHandler(s.DB, s.UserCache))
	s.Rbac.Add(rbac.RoleAdmin, "ADMIN_USERS_CREATE", http.MethodPost, "/console/admin/users")
	r.Post("/admin/users", adminusers.CreateUserCommandHandler(s.DB, s.UserCache))

	s.Rbac.Add(rbac.RoleAdmin, "SETTINGS_VIEW", http.MethodGet, "/console/settings")
	r.Get("/settings", settings.SettingsPageHandler(s.DB))
	s.Rbac.Add(rbac.RoleAdmin, "SETTINGS_EDIT", http.MethodPost, "/console/settings")
	r.Post("/settings", settings.SettingsUpdateHandler(s.DB, s.Activity))
	return r
}

// RegisterFrontendRoutes registers authenticated routes.
func (s *Server) RegisterFrontendRoutes(r chi.Router) chi.Router {
	s.RegisterProductRoutes(r)
	s.RegisterPurchasingRoutes(r)
	s.RegisterIntakeRoutes(r)
	s.RegisterDistributionRoutes(r)
	s.RegisterShippingRoutes(r)
	s.RegisterActivityRoutes(r)
	s.RegisterExportRoutes(r)
	return r
}

func (s *Server) RegisterProductRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleAdmin, "PRODUCTS_VIEW", http.MethodGet, "/console/products")
	s.Rbac.Add(rbac.RoleOperator, "PRODUCTS_VIEW", http.MethodGet, "/console/products")
	r.Get("/products", products.ProductsPageQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "PRODUCTS_IMPORT", http.MethodPost, "/console/products/import")
	r.Post("/products/import", products.ProductsImportCommandHandler(s.DB, s.Activity))

	s.Rbac.Add(rbac.RoleAdmin, "PRODUCTS_DELETE_BULK", http.MethodPost, "/console/products/delete")
	r.Post("/products/delete", products.ProductsDeleteCommandHandler(s.DB, s.Activity))

	s.Rbac.Add(rbac.RoleAdmin, "PRODUCTS_DELETE_ONE", http.MethodPost, "/console/products/delete/*")
	r.Post("/products/delete/{id}", products.ProductDeleteOneCommandHandler(s.DB, s.Activity))
}

func (s *Server) RegisterPurchasingRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleAdmin, "PURCHASING_LIST_VIEW", http.MethodGet, "/console/purchasing")
	s.Rbac.Add(rbac.RoleOperator, "PURCHASING_LIST_VIEW", http.MethodGet, "/console/purchasing")
	r.Get("/purchasing", purchasing.PurchasingPageQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "PURCHASING_CREATE", http.MethodPost, "/console/purchasing")
	r.Post("/purchasing", purchasing.CreateOrderCommandHandler(s.DB, s.Activity))

	s.Rbac.Add(rbac.RoleAdmin, "PURCHASING_DETAIL_VIEW", http.MethodGet, "/console/purchasing/*")
	s.Rbac.Add(rbac.RoleOperator, "PURCHASING_DETAIL_VIEW", http.MethodGet, "/console/purchasing/*")
	r.Get("/purchasing/{id}", purchasing.OrderDetailQueryHandler(s.DB))
	r.Get("/purchasing/{id}/pdf", purchasing.OrderPDFQueryHandler(s.DB))
	r.Get("/purchasing/{id}/receipt/{fileID}", purchasing.DownloadReceiptQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "PURCHASING_STATUS_EDIT", http.MethodPost, "/console/purchasing/*/status")
	r.Post("/purchasing/{id}/status", purchasing.OrderStatusCommandHandler(s.DB, s.Activity))

	s.Rbac.Add(rbac.RoleAdmin, "PURCHASING_RECEIPT_UPLOAD", http.MethodPost, "/console/purchasing/*/receipt")
	s.Rbac.Add(rbac.RoleOperator, "PURCHASING_RECEIPT_UPLOAD", http.MethodPost, "/console/purchasing/*/receipt")
	r.Post("/purchasing/{id}/receipt", purchasing.UploadReceiptCommandHandler(s.DB, s.Activity))
}

func (s *Server) RegisterIntakeRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleAdmin, "INTAKE_VIEW", http.MethodGet, "/console/intake")
	s.Rbac.Add(rbac.RoleOperator, "INTAKE_VIEW", http.MethodGet, "/console/intake")
	r.Get("/intake", intake.IntakePageQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "INTAKE_CREATE", http.MethodPost, "/console/intake")
	s.Rbac.Add(rbac.RoleOperator, "INTAKE_CREATE", http.MethodPost, "/console/intake")
	r.Post("/intake", intake.CreateIntakeCommandHandler(s.DB, s.Activity))

	s.Rbac.Add(rbac.RoleAdmin, "INTAKE_EXPIRY_BULK", http.MethodPost, "/console/intake/expiry")
	r.Post("/intake/expiry", intake.BulkExpiryCommandHandler(s.DB, s.Activity))
}

func (s *Server) RegisterDistributionRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleAdmin, "DISTRIBUTION_VIEW", http.MethodGet, "/console/distribution")
	s.Rbac.Add(rbac.RoleOperator, "DISTRIBUTION_VIEW", http.MethodGet, "/console/distribution")
	r.Get("/distribution", distribution.DistributionPageQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "DISTRIBUTION_SPLIT", http.MethodPost, "/console/distribution")
	s.Rbac.Add(rbac.RoleOperator, "DISTRIBUTION_SPLIT", http.MethodPost, "/console/distribution")
	r.Post("/distribution", distribution.CreateSplitCommandHandler(s.DB, s.Activity))

	s.Rbac.Add(rbac.RoleAdmin, "DISTRIBUTION_REBALANCE", http.MethodPost, "/console/distribution/rebalance")
	r.Post("/distribution/rebalance", distribution.RebalanceSplitCommandHandler(s.DB, s.Activity))
}

func (s *Server) RegisterShippingRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleAdmin, "SHIPPING_VIEW", http.MethodGet, "/console/shipping")
	r.Get("/shipping", shipping.ShippingPageQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "SHIPPING_ZONE_CREATE", http.MethodPost, "/console/shipping/zones")
	r.Post("/shipping/zones", shipping.CreateZoneCommandHandler(s.DB, s.Activity))

	s.Rbac.Add(rbac.RoleAdmin, "SHIPPING_METHOD_CREATE", http.MethodPost, "/console/shipping/methods")
	r.Post("/shipping/methods", shipping.CreateMethodCommandHandler(s.DB, s.Activity))

	s.Rbac.Add(rbac.RoleAdmin, "SHIPPING_METHOD_TOGGLE", http.MethodPost, "/console/shipping/methods/toggle")
	r.Post("/shipping/methods/toggle", shipping.ToggleMethodCommandHandler(s.DB, s.Activity))

	s.Rbac.Add(rbac.RoleAdmin, "SHIPPING_ZONE_ASSIGN", http.MethodPost, "/console/shipping/assign")
	r.Post("/shipping/assign", shipping.AssignMethodCommandHandler(s.DB, s.Activity))
}

func (s *Server) RegisterActivityRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleAdmin, "ACTIVITY_VIEW", http.MethodGet, "/console/activity")
	r.Get("/activity", activitypage.ActivityPageQueryHandler(s.DB))
}

func (s *Server) RegisterExportRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleAdmin, "EXPORTS_VIEW", http.MethodGet, "/console/exports")
	r.Get("/exports", exportspage.ExportsPageQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "EXPORT_INTAKE", http.MethodGet, "/console/exports/intake.csv")
	r.Get("/exports/intake.csv", exportspage.IntakeExportCSVHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "EXPORT_DISTRIBUTION", http.MethodGet, "/console/exports/distribution.csv")
	r.Get("/exports/distribution.csv", exportspage.DistributionExportCSVHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "EXPORT_ACTIVITY", http.MethodGet, "/console/exports/activity.csv")
	r.Get("/exports/activity.csv", exportspage.ActivityExportCSVHandler(s.DB))
}
