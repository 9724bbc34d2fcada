package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"store-backend/internal/handlers"
	"store-backend/internal/middleware"
)

// Handlers bundles every route handler the router mounts.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Indent      *handlers.IndentHandler
	StoreIndent *handlers.StoreIndentHandler
	PO          *handlers.POHandler
	Stock       *handlers.StockHandler
	Item        *handlers.ItemHandler
	Health      *handlers.HealthHandler
}

// NewRouter mounts every route at the root and again under /api. Indent and
// stock routes are public; ERP lists, downloads and the dashboard need a
// token, and cache invalidation needs the admin role.
func NewRouter(h Handlers, authMiddleware *middleware.AuthMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	registerRoutes(r, h, authMiddleware)
	registerRoutes(r.PathPrefix("/api").Subrouter(), h, authMiddleware)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":"route not found"}`))
	})
	return r
}

func registerRoutes(r *mux.Router, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	r.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	r.HandleFunc("/user/{employeeId}", h.Auth.GetUser).Methods(http.MethodGet)

	indent := r.PathPrefix("/indent").Subrouter()
	indent.HandleFunc("", h.Indent.Create).Methods(http.MethodPost)
	indent.HandleFunc("", h.Indent.List).Methods(http.MethodGet)
	indent.HandleFunc("/all", h.Indent.ListAll).Methods(http.MethodGet)
	indent.HandleFunc("/filter", h.Indent.ListAll).Methods(http.MethodGet)
	indent.HandleFunc("/status/{statusType}", h.Indent.ListByStatusType).Methods(http.MethodGet)
	indent.HandleFunc("/{requestNumber}", h.Indent.Get).Methods(http.MethodGet)
	indent.HandleFunc("/{requestNumber}/status", h.Indent.UpdateStatus).Methods(http.MethodPut)

	storeIndent := r.PathPrefix("/store-indent").Subrouter()
	storeIndent.Use(authMiddleware.Authenticate)
	storeIndent.HandleFunc("/pending", h.StoreIndent.Pending).Methods(http.MethodGet)
	storeIndent.HandleFunc("/pending/download", h.StoreIndent.DownloadPending).Methods(http.MethodGet)
	storeIndent.HandleFunc("/history", h.StoreIndent.History).Methods(http.MethodGet)
	storeIndent.HandleFunc("/history/download", h.StoreIndent.DownloadHistory).Methods(http.MethodGet)
	storeIndent.HandleFunc("/dashboard", h.StoreIndent.GetDashboard).Methods(http.MethodGet)
	storeIndent.Handle("/cache/invalidate",
		authMiddleware.RequireRole("admin")(http.HandlerFunc(h.StoreIndent.InvalidateCaches)),
	).Methods(http.MethodPost)

	po := r.PathPrefix("/po").Subrouter()
	po.Use(authMiddleware.Authenticate)
	po.HandleFunc("/pending", h.PO.Pending).Methods(http.MethodGet)
	po.HandleFunc("/pending/download", h.PO.DownloadPending).Methods(http.MethodGet)
	po.HandleFunc("/history", h.PO.History).Methods(http.MethodGet)
	po.HandleFunc("/history/download", h.PO.DownloadHistory).Methods(http.MethodGet)

	r.HandleFunc("/stock", h.Stock.Get).Methods(http.MethodGet)

	items := r.PathPrefix("/items").Subrouter()
	items.Use(authMiddleware.Authenticate)
	items.HandleFunc("", h.Item.List).Methods(http.MethodGet)
	items.HandleFunc("/categories", h.Item.Categories).Methods(http.MethodGet)

	r.HandleFunc("/health", h.Health.BasicHealth).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", h.Health.ReadinessHealth).Methods(http.MethodGet)
	r.HandleFunc("/health/pg", h.Health.PostgresHealth).Methods(http.MethodGet)
	r.HandleFunc("/health/detailed", h.Health.DetailedHealth).Methods(http.MethodGet)
}
