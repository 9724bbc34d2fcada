package handlers

import (
	"context"
	"net/http"

	"store-backend/internal/models"
	"store-backend/pkg/utils"
)

type ItemService interface {
	Items(ctx context.Context) ([]models.StoreIndentItem, error)
	Categories(ctx context.Context) ([]string, error)
}

type ItemHandler struct {
	Service ItemService
}

func NewItemHandler(s ItemService) *ItemHandler {
	return &ItemHandler{Service: s}
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.Items(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.List(w, items, len(items))
}

func (h *ItemHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Service.Categories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	utils.List(w, cats, len(cats))
}
