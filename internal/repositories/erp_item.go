package repositories

import (
	"context"
	"database/sql"

	"store-backend/internal/db"
	"store-backend/internal/models"
)

// StoreIndentItems lists store items (nature SI) with their level-4 group.
func (r *ERPRepository) StoreIndentItems(ctx context.Context) ([]models.StoreIndentItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT t.level_4_name AS groupname,
			t.item_code,
			UPPER(t.item_name) AS itemname
		FROM view_item_mast_engine t
		WHERE t.item_nature = 'SI'
		ORDER BY t.level_4_name ASC`)
	if err != nil {
		return nil, db.ClassifyERP(err)
	}
	defer rows.Close()

	items := []models.StoreIndentItem{}
	for rows.Next() {
		var group, code, name sql.NullString
		if err := rows.Scan(&group, &code, &name); err != nil {
			return nil, db.ClassifyERP(err)
		}
		items = append(items, models.StoreIndentItem{
			GroupName: group.String,
			ItemCode:  code.String,
			ItemName:  name.String,
		})
	}
	return items, db.ClassifyERP(rows.Err())
}

// ItemCategories lists the categories of active store items.
func (r *ERPRepository) ItemCategories(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT t.item_catg_name
		FROM view_item_mast_engine t
		WHERE t.item_nature = 'SI'
			AND (t.item_status IN ('U', 'N') OR t.item_status IS NULL)
			AND t.item_catg_name IS NOT NULL
		ORDER BY t.item_catg_name`)
	if err != nil {
		return nil, db.ClassifyERP(err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, db.ClassifyERP(err)
		}
		categories = append(categories, name)
	}
	return categories, db.ClassifyERP(rows.Err())
}
