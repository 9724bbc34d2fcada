package handlers

import (
	"context"
	"net/http"

	"store-backend/internal/models"
	"store-backend/internal/services"
	"store-backend/pkg/utils"
)

type POService interface {
	Pending(ctx context.Context) ([]models.PurchaseOrder, error)
	History(ctx context.Context) ([]models.PurchaseOrder, error)
}

type POHandler struct {
	Service POService
	Reports Exporter
}

func NewPOHandler(s POService, reports Exporter) *POHandler {
	return &POHandler{Service: s, Reports: reports}
}

func (h *POHandler) Pending(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Service.Pending)
}

func (h *POHandler) History(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Service.History)
}

func (h *POHandler) DownloadPending(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.Service.Pending, services.PendingPOTable)
}

func (h *POHandler) DownloadHistory(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.Service.History, services.POHistoryTable)
}

type poLoader func(ctx context.Context) ([]models.PurchaseOrder, error)

func (h *POHandler) list(w http.ResponseWriter, r *http.Request, load poLoader) {
	rows, err := load(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.List(w, rows, len(rows))
}

func (h *POHandler) download(w http.ResponseWriter, r *http.Request, load poLoader, table func([]models.PurchaseOrder) services.Table) {
	rows, err := load(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	d, err := h.Reports.Export(r.Context(), table(rows), r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	sendDownload(w, d)
}
