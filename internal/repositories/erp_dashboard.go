package repositories

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"store-backend/internal/db"
	"store-backend/internal/models"
)

// IndentTotals counts ERP indent lines in the window and sums their quantity.
func (r *ERPRepository) IndentTotals(ctx context.Context) (models.Totals, error) {
	return r.totals(ctx, `
		SELECT COUNT(*), NVL(SUM(t.qtyindent), 0)
		FROM view_indent_engine t
		WHERE t.entity_code = '`+erpEntityCode+`'
			AND t.vrdate >= `+erpWindowStart)
}

// PurchaseOrderTotals counts closed purchase orders and sums ordered quantity.
func (r *ERPRepository) PurchaseOrderTotals(ctx context.Context) (models.Totals, error) {
	return r.totals(ctx, `
		SELECT COUNT(DISTINCT t.vrno), NVL(SUM(t.qtyorder), 0)
		FROM view_order_engine t
		WHERE `+poBaseWhere+`
			AND `+poClosedPredicate)
}

// IssuedQuantity sums store issues in the window.
func (r *ERPRepository) IssuedQuantity(ctx context.Context) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := r.DB.QueryRowContext(ctx, `
		SELECT NVL(SUM(t.qtyissue), 0)
		FROM view_issue_engine t
		WHERE t.entity_code = '`+erpEntityCode+`'
			AND t.vrdate >= `+erpWindowStart).Scan(&qty)
	if err != nil {
		return decimal.Zero, db.ClassifyERP(err)
	}
	return qty, nil
}

// OutOfStockCount counts store items whose closing stock is zero or less.
func (r *ERPRepository) OutOfStockCount(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, `
		SELECT COUNT(*) FROM (
			SELECT t.item_code
			FROM view_item_stock_engine t
			WHERE t.entity_code = '`+erpEntityCode+`'
				AND t.item_nature = 'SI'
			GROUP BY t.item_code
			HAVING SUM(NVL(t.yrclqty_engine, 0)) <= 0
		)`)
	return int64(n), err
}

// TopPurchasedItems ranks items on closed purchase orders by ordered quantity.
func (r *ERPRepository) TopPurchasedItems(ctx context.Context, limit int) ([]models.RankedItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT UPPER(t.item_name) AS item_name, t.um, SUM(t.qtyorder) AS qty
		FROM view_order_engine t
		WHERE `+poBaseWhere+`
			AND `+poClosedPredicate+`
		GROUP BY UPPER(t.item_name), t.um
		ORDER BY qty DESC
		FETCH FIRST :lim ROWS ONLY`,
		sql.Named("lim", limit),
	)
	if err != nil {
		return nil, db.ClassifyERP(err)
	}
	defer rows.Close()

	items := []models.RankedItem{}
	for rows.Next() {
		var (
			it        models.RankedItem
			name, uom sql.NullString
		)
		if err := rows.Scan(&name, &uom, &it.Quantity); err != nil {
			return nil, db.ClassifyERP(err)
		}
		it.ItemName = name.String
		it.UOM = uom.String
		items = append(items, it)
	}
	return items, db.ClassifyERP(rows.Err())
}

// TopVendors ranks vendors by distinct closed orders, then ordered quantity.
func (r *ERPRepository) TopVendors(ctx context.Context, limit int) ([]models.RankedVendor, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT lhs_utility.get_name('acc_code', t.acc_code) AS vendor_name,
			COUNT(DISTINCT t.vrno) AS orders,
			SUM(t.qtyorder) AS qty
		FROM view_order_engine t
		WHERE `+poBaseWhere+`
			AND `+poClosedPredicate+`
		GROUP BY t.acc_code
		ORDER BY orders DESC, qty DESC
		FETCH FIRST :lim ROWS ONLY`,
		sql.Named("lim", limit),
	)
	if err != nil {
		return nil, db.ClassifyERP(err)
	}
	defer rows.Close()

	vendors := []models.RankedVendor{}
	for rows.Next() {
		var (
			v    models.RankedVendor
			name sql.NullString
		)
		if err := rows.Scan(&name, &v.OrderCount, &v.Quantity); err != nil {
			return nil, db.ClassifyERP(err)
		}
		v.VendorName = name.String
		vendors = append(vendors, v)
	}
	return vendors, db.ClassifyERP(rows.Err())
}

func (r *ERPRepository) totals(ctx context.Context, query string) (models.Totals, error) {
	var t models.Totals
	if err := r.DB.QueryRowContext(ctx, query).Scan(&t.Count, &t.Quantity); err != nil {
		return models.Totals{}, db.ClassifyERP(err)
	}
	return t, nil
}
