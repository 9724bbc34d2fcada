package repositories

import (
	"context"
	"database/sql"

	"store-backend/internal/db"
	"store-backend/internal/models"
)

const (
	poBaseWhere = `
		t.entity_code = '` + erpEntityCode + `'
		AND t.series = '` + erpPOSeries + `'
		AND t.qtycancelled IS NULL
		AND t.vrdate >= ` + erpWindowStart

	// completed, or executed beyond the ordered quantity
	poClosedPredicate = `((t.qtyorder - t.qtyexecute) = 0 OR (t.qtyorder - t.qtyexecute) > t.qtyorder)`
)

// PendingPOs lists PO lines with quantity still to be received, newest first.
func (r *ERPRepository) PendingPOs(ctx context.Context) ([]models.PurchaseOrder, error) {
	return r.purchaseOrders(ctx, `
		SELECT
			t.duedate + INTERVAL '20' HOUR AS planned_timestamp,
			t.vrno,
			t.vrdate,
			lhs_utility.get_name('acc_code', t.acc_code) AS vendor_name,
			t.item_name,
			t.qtyorder,
			t.um,
			t.qtyexecute,
			(t.qtyorder - t.qtyexecute) AS balance_qty
		FROM view_order_engine t
		WHERE `+poBaseWhere+`
			AND (t.qtyorder - t.qtyexecute) > 0
		ORDER BY t.vrdate DESC, t.vrno DESC`, true)
}

// POHistory lists closed PO lines, newest first.
func (r *ERPRepository) POHistory(ctx context.Context) ([]models.PurchaseOrder, error) {
	return r.purchaseOrders(ctx, `
		SELECT
			t.duedate + INTERVAL '20' HOUR AS planned_timestamp,
			t.vrno,
			t.vrdate,
			lhs_utility.get_name('acc_code', t.acc_code) AS vendor_name,
			t.item_name,
			t.qtyorder,
			t.um,
			t.qtyexecute
		FROM view_order_engine t
		WHERE `+poBaseWhere+`
			AND `+poClosedPredicate+`
		ORDER BY t.vrdate DESC, t.vrno DESC`, false)
}

func (r *ERPRepository) purchaseOrders(ctx context.Context, query string, withBalance bool) ([]models.PurchaseOrder, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, db.ClassifyERP(err)
	}
	defer rows.Close()

	result := []models.PurchaseOrder{}
	for rows.Next() {
		var (
			po                          models.PurchaseOrder
			planned, vrdate             sql.NullTime
			vrno, vendor, itemName, uom sql.NullString
		)
		dest := []any{&planned, &vrno, &vrdate, &vendor, &itemName, &po.QtyOrder, &uom, &po.QtyExecute}
		if withBalance {
			dest = append(dest, &po.BalanceQty)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, db.ClassifyERP(err)
		}
		po.PlannedTimestamp = timePtr(planned)
		po.VoucherNumber = vrno.String
		po.VoucherDate = timePtr(vrdate)
		po.VendorName = vendor.String
		po.ItemName = itemName.String
		po.UOM = uom.String
		result = append(result, po)
	}
	return result, db.ClassifyERP(rows.Err())
}
