package controller

import (
	"context"
	"io"
	"net/http"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
)

const maxImportBytes = 10 << 20

// StockKeeper adjusts quantities and imports workbooks.
type StockKeeper interface {
	AdjustStock(ctx context.Context, id, quantity int, kind model.StockAdjustment) (*model.InventoryItem, error)
	Import(ctx context.Context, r io.Reader, filename string) (*model.ImportResult, error)
}

type InventoryController struct {
	Repo  repository.InventoryRepositoryInterface
	Stock StockKeeper
}

type inventoryRequest struct {
	SKU            string  `json:"sku" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	Description    *string `json:"description"`
	Category       string  `json:"category" validate:"required"`
	UnitCost       float64 `json:"unitCost" validate:"gte=0"`
	SellingPrice   float64 `json:"sellingPrice" validate:"gte=0"`
	QuantityOnHand int     `json:"quantityOnHand" validate:"gte=0"`
	ReorderPoint   int     `json:"reorderPoint" validate:"gte=0"`
	Location       *string `json:"location"`
	Supplier       *string `json:"supplier"`
	IsActive       *bool   `json:"isActive"`
}

func (b inventoryRequest) item(id int) *model.InventoryItem {
	active := true
	if b.IsActive != nil {
		active = *b.IsActive
	}
	return &model.InventoryItem{
		ID:           id,
		SKU:          b.SKU,
		Name:         b.Name,
		Description:  b.Description,
		Category:     b.Category,
		UnitCost:     b.UnitCost,
		SellingPrice: b.SellingPrice,
		Quantity:     b.QuantityOnHand,
		ReorderPoint: b.ReorderPoint,
		Location:     b.Location,
		Supplier:     b.Supplier,
		IsActive:     active,
	}
}

func (c *InventoryController) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	items, total, err := c.Repo.List(r.Context(), q.Get("category"), q.Get("search"), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, "items", items, page, total)
}

func (c *InventoryController) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Repo.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (c *InventoryController) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := c.Repo.LowStock(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (c *InventoryController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := c.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (c *InventoryController) Create(w http.ResponseWriter, r *http.Request) {
	var body inventoryRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	item := body.item(0)
	if err := c.Repo.Create(r.Context(), item); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (c *InventoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body inventoryRequest
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	item := body.item(id)
	if err := c.Repo.Update(r.Context(), item); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (c *InventoryController) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Quantity int    `json:"quantity" validate:"required"`
		Type     string `json:"type" validate:"required"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := c.Stock.AdjustStock(r.Context(), id, body.Quantity, model.StockAdjustment(body.Type))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (c *InventoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Inventory item deleted successfully")
}

// Import takes a multipart upload in the "file" field.
func (c *InventoryController) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		writeError(w, r, appErrors.NewValidation("file", "A multipart upload is required"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, appErrors.NewValidation("file", "file is required"))
		return
	}
	defer file.Close()

	result, err := c.Stock.Import(r.Context(), file, header.Filename)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
