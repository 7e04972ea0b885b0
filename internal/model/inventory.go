package model

import "time"

type InventoryItem struct {
	ID           int       `db:"id" json:"id"`
	SKU          string    `db:"sku" json:"sku"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description"`
	Category     string    `db:"category" json:"category"`
	UnitCost     float64   `db:"unit_cost" json:"unitCost"`
	SellingPrice float64   `db:"selling_price" json:"sellingPrice"`
	Quantity     int       `db:"quantity" json:"quantityOnHand"`
	ReorderPoint int       `db:"reorder_point" json:"reorderPoint"`
	Location     *string   `db:"location" json:"location"`
	Supplier     *string   `db:"supplier" json:"supplier"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

func (i InventoryItem) LowStock() bool {
	return i.Quantity <= i.ReorderPoint
}

type StockAdjustment string

const (
	StockAdd      StockAdjustment = "add"
	StockSubtract StockAdjustment = "subtract"
)

// ImportResult summarises a spreadsheet import.
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}
