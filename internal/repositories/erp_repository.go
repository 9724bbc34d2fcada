package repositories

import (
	"context"
	"database/sql"
	"time"

	"store-backend/internal/db"
)

// ERP filters shared by every store query.
const (
	erpEntityCode  = "SR"
	erpWindowStart = "DATE '2025-04-01'"
	erpPOSeries    = "U3"
)

// ERPRepository reads the legacy ERP views. Every method is read-only.
type ERPRepository struct {
	DB *sql.DB
}

func NewERPRepository(erp *sql.DB) *ERPRepository {
	return &ERPRepository{DB: erp}
}

func (r *ERPRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func (r *ERPRepository) count(ctx context.Context, query string) (int, error) {
	var n int64
	if err := r.DB.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, db.ClassifyERP(err)
	}
	return int(n), nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
