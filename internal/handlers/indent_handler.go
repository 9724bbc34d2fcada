package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"store-backend/internal/apperrors"
	"store-backend/internal/models"
	"store-backend/pkg/utils"
)

// IndentService is the indent lifecycle the handler drives.
type IndentService interface {
	Create(ctx context.Context, req models.CreateIndentRequest) (*models.Indent, error)
	UpdateOne(ctx context.Context, requestNumber string, upd models.IndentUpdate) (*models.Indent, error)
	UpdateMany(ctx context.Context, requestNumber string, updates []models.IndentUpdate) ([]*models.Indent, error)
	List(ctx context.Context, filter models.IndentFilter) ([]*models.Indent, error)
	GetByRequestNumber(ctx context.Context, requestNumber string) ([]*models.Indent, error)
}

type IndentHandler struct {
	Service IndentService
}

func NewIndentHandler(s IndentService) *IndentHandler {
	return &IndentHandler{Service: s}
}

// Create handles POST /indent.
func (h *IndentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateIndentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	row, err := h.Service.Create(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.OK(w, http.StatusCreated, row)
}

// UpdateStatus handles PUT /indent/{requestNumber}/status. The body is one
// update object, an array of them, or {"items": [...]}.
func (h *IndentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestNumber := mux.Vars(r)["requestNumber"]

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, r, apperrors.Validation("Invalid request body"))
		return
	}
	updates, many, err := models.ParseIndentUpdates(body)
	if err != nil {
		respondError(w, r, apperrors.Validation("Invalid request body"))
		return
	}

	if many {
		rows, err := h.Service.UpdateMany(r.Context(), requestNumber, updates)
		if err != nil {
			respondError(w, r, err)
			return
		}
		utils.List(w, rows, len(rows))
		return
	}

	row, err := h.Service.UpdateOne(r.Context(), requestNumber, updates[0])
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.OK(w, http.StatusOK, row)
}

// List handles GET /indent. Without a status parameter only PENDING
// indents are returned.
func (h *IndentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.IndentFilter{Status: r.URL.Query().Get("status")}
	if strings.TrimSpace(filter.Status) == "" {
		filter.Statuses = []string{models.StatusPending}
	}
	h.list(w, r, filter)
}

// ListAll handles GET /indent/all and /indent/filter, where status is optional.
func (h *IndentHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.IndentFilter{Status: r.URL.Query().Get("status")})
}

// ListByStatusType handles GET /indent/status/{statusType}.
func (h *IndentHandler) ListByStatusType(w http.ResponseWriter, r *http.Request) {
	var status string
	switch strings.ToLower(mux.Vars(r)["statusType"]) {
	case "approved":
		status = models.StatusApproved
	case "rejected":
		status = models.StatusRejected
	default:
		respondError(w, r, apperrors.Validation("Invalid status type. Must be 'approved' or 'rejected'."))
		return
	}
	h.list(w, r, models.IndentFilter{Statuses: []string{status}})
}

// Get handles GET /indent/{requestNumber}.
func (h *IndentHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestNumber := mux.Vars(r)["requestNumber"]

	rows, err := h.Service.GetByRequestNumber(r.Context(), requestNumber)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if len(rows) == 0 {
		respondError(w, r, apperrors.NotFound("Indent with request_number %s not found", requestNumber))
		return
	}
	utils.List(w, rows, len(rows))
}

func (h *IndentHandler) list(w http.ResponseWriter, r *http.Request, filter models.IndentFilter) {
	rows, err := h.Service.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if rows == nil {
		rows = []*models.Indent{}
	}
	utils.List(w, rows, len(rows))
}
