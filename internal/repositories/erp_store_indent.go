package repositories

import (
	"context"
	"database/sql"

	"store-backend/internal/db"
	"store-backend/internal/models"
)

const (
	pendingIndentWhere = `
		t.entity_code = '` + erpEntityCode + `'
		AND t.po_no IS NULL
		AND t.cancelleddate IS NULL
		AND t.vrdate >= ` + erpWindowStart

	historyIndentWhere = `
		t.entity_code = '` + erpEntityCode + `'
		AND t.po_no IS NOT NULL
		AND t.vrdate >= ` + erpWindowStart

	storeIndentColumns = `
		t.lastupdate + INTERVAL '3' DAY AS plannedtimestamp,
		t.vrno AS indent_number,
		t.vrdate AS indent_date,
		t.indent_remark AS indenter_name,
		lhs_utility.get_name('div_code', t.div_code) AS division,
		UPPER(lhs_utility.get_name('dept_code', t.dept_code)) AS department,
		UPPER(t.item_name) AS item_name,
		t.um,
		t.qtyindent AS required_qty,
		t.purpose_remark AS remark,
		UPPER(t.remark) AS specification,
		lhs_utility.get_name('cost_code', t.cost_code) AS cost_project`

	storeIndentHistoryColumns = storeIndentColumns + `,
		t.po_no,
		t.po_qty,
		t.cancelleddate,
		t.cancelled_remark`
)

func (r *ERPRepository) CountPendingIndents(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM view_indent_engine t WHERE `+pendingIndentWhere)
}

func (r *ERPRepository) CountIndentHistory(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM view_indent_engine t WHERE `+historyIndentWhere)
}

// PendingIndents returns rows startRow..endRow of indents with no PO yet,
// oldest voucher first.
func (r *ERPRepository) PendingIndents(ctx context.Context, startRow, endRow int) ([]models.StoreIndent, error) {
	return r.storeIndentWindow(ctx, storeIndentColumns, pendingIndentWhere, false, startRow, endRow)
}

// IndentHistory returns rows startRow..endRow of indents a PO was raised for.
func (r *ERPRepository) IndentHistory(ctx context.Context, startRow, endRow int) ([]models.StoreIndent, error) {
	return r.storeIndentWindow(ctx, storeIndentHistoryColumns, historyIndentWhere, true, startRow, endRow)
}

func (r *ERPRepository) storeIndentWindow(ctx context.Context, columns, where string, history bool, startRow, endRow int) ([]models.StoreIndent, error) {
	query := `
		SELECT * FROM (
			SELECT ` + columns + `,
				ROW_NUMBER() OVER (ORDER BY t.vrdate ASC, t.vrno ASC) AS rn
			FROM view_indent_engine t
			WHERE ` + where + `
		)
		WHERE rn BETWEEN :startRow AND :endRow
		ORDER BY rn`

	rows, err := r.DB.QueryContext(ctx, query,
		sql.Named("startRow", startRow),
		sql.Named("endRow", endRow),
	)
	if err != nil {
		return nil, db.ClassifyERP(err)
	}
	defer rows.Close()

	result := []models.StoreIndent{}
	for rows.Next() {
		var (
			si                                    models.StoreIndent
			planned, indentDate, cancelledDate    sql.NullTime
			number, indenter, division, dept      sql.NullString
			itemName, uom, remark, spec, costProj sql.NullString
			poNumber, cancelledRemark             sql.NullString
			rn                                    int64
		)
		dest := []any{
			&planned, &number, &indentDate, &indenter, &division, &dept,
			&itemName, &uom, &si.RequiredQty, &remark, &spec, &costProj,
		}
		if history {
			dest = append(dest, &poNumber, &si.POQty, &cancelledDate, &cancelledRemark)
		}
		dest = append(dest, &rn)

		if err := rows.Scan(dest...); err != nil {
			return nil, db.ClassifyERP(err)
		}

		si.PlannedTimestamp = timePtr(planned)
		si.IndentNumber = number.String
		si.IndentDate = timePtr(indentDate)
		si.IndenterName = indenter.String
		si.Division = division.String
		si.Department = dept.String
		si.ItemName = itemName.String
		si.UOM = uom.String
		si.Remark = remark.String
		si.Specification = spec.String
		si.CostProject = costProj.String
		si.PONumber = poNumber.String
		si.CancelledDate = timePtr(cancelledDate)
		si.CancelledRemark = cancelledRemark.String
		result = append(result, si)
	}
	return result, db.ClassifyERP(rows.Err())
}
