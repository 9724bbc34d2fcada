package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"store-backend/internal/db"
	"store-backend/internal/models"
)

const stockQuery = `
	SELECT
		NVL(ITEM_CODE, 'N.A.') AS COL1,
		NVL(LHS_UTILITY.GET_NAME('ITEM_CODE', ITEM_CODE), 'N.A.') AS COL2,
		NVL(UM, ' ') AS COL3,
		SUM(NVL(YRCLQTY_ENGINE, 0)) AS COL4,
		SUM(NVL(YROPAQTY, 0)) AS COL5
	FROM VIEW_ITEM_STOCK_ENGINE
	WHERE ENTITY_CODE = 'SR'
		AND (
			div_code IN ('C1','C2','CO','F1','F2','F3','PM','R1','R2','RM','RP','SM')
			OR div_code IS NULL
		)
		AND ITEM_NATURE IN ('SI')
	GROUP BY
		ITEM_CODE,
		LHS_UTILITY.GET_NAME('ITEM_CODE', ITEM_CODE),
		NVL(UM, ' ')
	HAVING
		SUM(NVL(YROPAQTY, 0)) > 0
		AND SUM(NVL(YRCLQTY_ENGINE, 0)) > 0
	ORDER BY
		ITEM_CODE,
		LHS_UTILITY.GET_NAME('ITEM_CODE', ITEM_CODE),
		NVL(UM, ' ')`

// Stock returns per-item stock for the window from..to (DD-MON-RR). The
// window lives in LHS_UTILITY package state, which is per session, so both
// statements run on one pinned connection.
func (r *ERPRepository) Stock(ctx context.Context, from, to string) ([]models.StockRow, error) {
	conn, err := r.DB.Conn(ctx)
	if err != nil {
		return nil, db.ClassifyERP(err)
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, `
		BEGIN
			LHS_UTILITY.SET_FROM_DATE(TO_DATE(:p_from, 'DD-MON-RR'));
			LHS_UTILITY.SET_TO_DATE(TO_DATE(:p_to, 'DD-MON-RR'));
		END;`,
		sql.Named("p_from", from),
		sql.Named("p_to", to),
	)
	if err != nil {
		return nil, db.ClassifyERP(fmt.Errorf("set stock window: %w", err))
	}

	rows, err := conn.QueryContext(ctx, stockQuery)
	if err != nil {
		return nil, db.ClassifyERP(err)
	}
	defer rows.Close()

	result := []models.StockRow{}
	for rows.Next() {
		var s models.StockRow
		if err := rows.Scan(&s.ItemCode, &s.ItemName, &s.UOM, &s.ClosingQty, &s.OpeningQty); err != nil {
			return nil, db.ClassifyERP(err)
		}
		result = append(result, s)
	}
	return result, db.ClassifyERP(rows.Err())
}
