package services

import (
	"context"

	"store-backend/internal/models"
)

// POSource reads purchase orders from the ERP.
type POSource interface {
	PendingPOs(ctx context.Context) ([]models.PurchaseOrder, error)
	POHistory(ctx context.Context) ([]models.PurchaseOrder, error)
}

type POService struct {
	src POSource
}

func NewPOService(src POSource) *POService {
	return &POService{src: src}
}

// Pending lists open orders with a positive balance, newest first.
func (s *POService) Pending(ctx context.Context) ([]models.PurchaseOrder, error) {
	return nonNil(s.src.PendingPOs(ctx))
}

// History lists fully executed or over-executed orders, newest first.
func (s *POService) History(ctx context.Context) ([]models.PurchaseOrder, error) {
	return nonNil(s.src.POHistory(ctx))
}

// nonNil turns a nil slice into an empty one so lists encode as [].
func nonNil[T any](rows []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}
