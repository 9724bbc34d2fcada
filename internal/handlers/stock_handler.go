package handlers

import (
	"context"
	"net/http"

	"store-backend/internal/services"
	"store-backend/pkg/utils"
)

type StockService interface {
	Stock(ctx context.Context, q services.StockQuery) (services.StockResult, error)
}

type StockHandler struct {
	Service StockService
}

func NewStockHandler(s StockService) *StockHandler {
	return &StockHandler{Service: s}
}

// Get handles GET /stock?fromDate=&toDate=&search=.
func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.Service.Stock(r.Context(), services.StockQuery{
		FromDate: q.Get("fromDate"),
		ToDate:   q.Get("toDate"),
		Search:   q.Get("search"),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"fromDate": res.FromDate,
		"toDate":   res.ToDate,
		"total":    len(res.Rows),
		"data":     res.Rows,
	})
}
