package repository

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
)

type InventoryRepositoryInterface interface {
	List(ctx context.Context, category, search string, page model.PageRequest) ([]model.InventoryItem, int, error)
	Categories(ctx context.Context) ([]string, error)
	LowStock(ctx context.Context) ([]model.InventoryItem, error)
	GetByID(ctx context.Context, id int) (*model.InventoryItem, error)
	Create(ctx context.Context, item *model.InventoryItem) error
	Update(ctx context.Context, item *model.InventoryItem) error
	AdjustStock(ctx context.Context, id, quantity int, kind model.StockAdjustment) (*model.InventoryItem, error)
	UpsertBySKU(ctx context.Context, item *model.InventoryItem) (created bool, err error)
	Delete(ctx context.Context, id int) error
}

type InventoryRepository struct {
	DB *sql.DB
}

const inventoryColumns = `id, sku, name, description, category, unit_cost, selling_price, quantity, reorder_point,
        location, supplier, is_active, created_at, updated_at`

func scanInventoryItem(row rowScanner, i *model.InventoryItem) error {
	return row.Scan(&i.ID, &i.SKU, &i.Name, &i.Description, &i.Category, &i.UnitCost, &i.SellingPrice, &i.Quantity,
		&i.ReorderPoint, &i.Location, &i.Supplier, &i.IsActive, &i.CreatedAt, &i.UpdatedAt)
}

func (r *InventoryRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]model.InventoryItem, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.InventoryItem{}
	for rows.Next() {
		var i model.InventoryItem
		if err := scanInventoryItem(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (r *InventoryRepository) List(ctx context.Context, category, search string, page model.PageRequest) ([]model.InventoryItem, int, error) {
	w := newWhere()
	if category != "" {
		w.add("category = ?", category)
	}
	if search != "" {
		w.add("(name ILIKE ? OR sku ILIKE ?)", likePattern(search), likePattern(search))
	}

	limit, args := w.page(page.Limit, page.Offset())
	items, err := r.queryItems(ctx, `SELECT `+inventoryColumns+` FROM inventory_items`+w.sql+` ORDER BY name`+limit, args...)
	if err != nil {
		return nil, 0, err
	}

	total, err := w.count(ctx, r.DB, "inventory_items")
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *InventoryRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT category FROM inventory_items ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *InventoryRepository) LowStock(ctx context.Context) ([]model.InventoryItem, error) {
	return r.queryItems(ctx, `SELECT `+inventoryColumns+` FROM inventory_items
        WHERE is_active = TRUE AND quantity <= reorder_point
        ORDER BY quantity ASC, name`)
}

func (r *InventoryRepository) GetByID(ctx context.Context, id int) (*model.InventoryItem, error) {
	var i model.InventoryItem
	row := r.DB.QueryRowContext(ctx, `SELECT `+inventoryColumns+` FROM inventory_items WHERE id = $1`, id)
	if err := scanInventoryItem(row, &i); err != nil {
		return nil, notFound(err, "Inventory item", id)
	}
	return &i, nil
}

func (r *InventoryRepository) Create(ctx context.Context, i *model.InventoryItem) error {
	query := `
        INSERT INTO inventory_items (sku, name, description, category, unit_cost, selling_price, quantity, reorder_point,
            location, supplier, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at, updated_at
    `
	err := r.DB.QueryRowContext(ctx, query,
		i.SKU, i.Name, i.Description, i.Category, i.UnitCost, i.SellingPrice, i.Quantity, i.ReorderPoint,
		i.Location, i.Supplier, i.IsActive,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	if isUniqueViolation(err) {
		return appErrors.NewConflict("SKU %s already exists", i.SKU)
	}
	return err
}

func (r *InventoryRepository) Update(ctx context.Context, i *model.InventoryItem) error {
	query := `
        UPDATE inventory_items
        SET sku=$1, name=$2, description=$3, category=$4, unit_cost=$5, selling_price=$6, quantity=$7,
            reorder_point=$8, location=$9, supplier=$10, is_active=$11, updated_at=NOW()
        WHERE id=$12
        RETURNING created_at, updated_at
    `
	err := r.DB.QueryRowContext(ctx, query,
		i.SKU, i.Name, i.Description, i.Category, i.UnitCost, i.SellingPrice, i.Quantity,
		i.ReorderPoint, i.Location, i.Supplier, i.IsActive, i.ID,
	).Scan(&i.CreatedAt, &i.UpdatedAt)
	if isUniqueViolation(err) {
		return appErrors.NewConflict("SKU %s already exists", i.SKU)
	}
	return notFound(err, "Inventory item", i.ID)
}

// AdjustStock adds or removes quantity atomically. A subtraction that would
// take the count below zero is rejected and leaves the row untouched.
func (r *InventoryRepository) AdjustStock(ctx context.Context, id, quantity int, kind model.StockAdjustment) (*model.InventoryItem, error) {
	delta := quantity
	if kind == model.StockSubtract {
		delta = -quantity
	}

	var i model.InventoryItem
	row := r.DB.QueryRowContext(ctx, `
        UPDATE inventory_items SET quantity = quantity + $1, updated_at = NOW()
        WHERE id = $2 AND quantity + $1 >= 0
        RETURNING `+inventoryColumns, delta, id)
	err := scanInventoryItem(row, &i)
	if err == nil {
		return &i, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Distinguish a missing item from insufficient stock.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, appErrors.NewValidation("quantity", "Insufficient stock")
}

// UpsertBySKU inserts the item or overwrites the existing row with the same
// SKU. It reports whether a new row was created.
func (r *InventoryRepository) UpsertBySKU(ctx context.Context, i *model.InventoryItem) (bool, error) {
	query := `
        INSERT INTO inventory_items (sku, name, category, unit_cost, selling_price, quantity, reorder_point)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (sku) DO UPDATE
        SET name = EXCLUDED.name, category = EXCLUDED.category, unit_cost = EXCLUDED.unit_cost,
            selling_price = EXCLUDED.selling_price, quantity = EXCLUDED.quantity,
            reorder_point = EXCLUDED.reorder_point, updated_at = NOW()
        RETURNING id, (xmax = 0) AS inserted
    `
	var inserted bool
	err := r.DB.QueryRowContext(ctx, query,
		i.SKU, i.Name, i.Category, i.UnitCost, i.SellingPrice, i.Quantity, i.ReorderPoint,
	).Scan(&i.ID, &inserted)
	return inserted, err
}

func (r *InventoryRepository) Delete(ctx context.Context, id int) error {
	return execAffecting(ctx, r.DB, "Inventory item", id, `DELETE FROM inventory_items WHERE id = $1`, id)
}
