package handlers

import (
	"context"
	"net/http"

	"store-backend/internal/models"
	"store-backend/internal/services"
	"store-backend/pkg/utils"
)

type StoreIndentService interface {
	GetPendingPage(ctx context.Context, page, pageSize int) (models.Page[models.StoreIndent], error)
	GetHistoryPage(ctx context.Context, page, pageSize int) (models.Page[models.StoreIndent], error)
	AllPending(ctx context.Context) ([]models.StoreIndent, error)
	AllHistory(ctx context.Context) ([]models.StoreIndent, error)
	InvalidateCaches(ctx context.Context)
}

type DashboardService interface {
	GetDashboard(ctx context.Context) (models.Dashboard, error)
}

// Exporter renders a table into a download.
type Exporter interface {
	Export(ctx context.Context, t services.Table, format string) (*services.Download, error)
}

type StoreIndentHandler struct {
	Service   StoreIndentService
	Dashboard DashboardService
	Reports   Exporter
}

func NewStoreIndentHandler(s StoreIndentService, d DashboardService, reports Exporter) *StoreIndentHandler {
	return &StoreIndentHandler{Service: s, Dashboard: d, Reports: reports}
}

func (h *StoreIndentHandler) Pending(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, h.Service.GetPendingPage)
}

func (h *StoreIndentHandler) History(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, h.Service.GetHistoryPage)
}

func (h *StoreIndentHandler) DownloadPending(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.AllPending(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.download(w, r, services.PendingIndentTable(rows))
}

func (h *StoreIndentHandler) DownloadHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.AllHistory(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.download(w, r, services.IndentHistoryTable(rows))
}

func (h *StoreIndentHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Dashboard.GetDashboard(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.OK(w, http.StatusOK, d)
}

// InvalidateCaches handles POST /store-indent/cache/invalidate.
func (h *StoreIndentHandler) InvalidateCaches(w http.ResponseWriter, r *http.Request) {
	h.Service.InvalidateCaches(r.Context())
	utils.Message(w, "Caches invalidated")
}

type pageLoader func(ctx context.Context, page, pageSize int) (models.Page[models.StoreIndent], error)

func (h *StoreIndentHandler) page(w http.ResponseWriter, r *http.Request, load pageLoader) {
	p, err := load(r.Context(), queryInt(r, "page"), queryInt(r, "pageSize"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"page":     p.Page,
		"pageSize": p.PageSize,
		"total":    p.Total,
		"data":     p.Rows,
	})
}

func (h *StoreIndentHandler) download(w http.ResponseWriter, r *http.Request, t services.Table) {
	d, err := h.Reports.Export(r.Context(), t, r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	sendDownload(w, d)
}
