package repository

import (
	"context"
	"fmt"

	"github.com/unclebandit/hvac-backend/internal/model"
)

// replaceLineItems swaps the item rows of one estimate or invoice for items,
// in the given order, and returns the new row ids.
func replaceLineItems(ctx context.Context, q DBTX, table, parentColumn string, parentID int, items []model.LineItem) ([]int, error) {
	if _, err := q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, parentColumn), parentID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
        INSERT INTO %s (%s, item_type, description, quantity, unit_price, total, inventory_id, service_id, sort_order)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id`, table, parentColumn)

	ids := make([]int, 0, len(items))
	for i, it := range items {
		var id int
		err := q.QueryRowContext(ctx, query,
			parentID, it.ItemType, it.Description, it.Quantity, it.UnitPrice, it.Total, it.InventoryID, it.ServiceID, i,
		).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func queryLineItems(ctx context.Context, q DBTX, table, parentColumn string, parentID int, each func(id int, li model.LineItem)) error {
	rows, err := q.QueryContext(ctx, fmt.Sprintf(`
        SELECT id, item_type, description, quantity, unit_price, total, inventory_id, service_id, sort_order
        FROM %s WHERE %s = $1 ORDER BY sort_order, id`, table, parentColumn), parentID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var li model.LineItem
		if err := rows.Scan(&id, &li.ItemType, &li.Description, &li.Quantity, &li.UnitPrice, &li.Total,
			&li.InventoryID, &li.ServiceID, &li.SortOrder); err != nil {
			return err
		}
		each(id, li)
	}
	return rows.Err()
}
