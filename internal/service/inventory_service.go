package service

import (
	"context"
	"fmt"
	"io"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/repository"
	"github.com/unclebandit/hvac-backend/internal/spreadsheet"
)

type InventoryService struct {
	Inventory repository.InventoryRepositoryInterface
}

// AdjustStock validates the adjustment before applying it.
func (s *InventoryService) AdjustStock(ctx context.Context, id, quantity int, kind model.StockAdjustment) (*model.InventoryItem, error) {
	if quantity <= 0 {
		return nil, appErrors.NewValidation("quantity", "Quantity must be a positive integer")
	}
	if kind != model.StockAdd && kind != model.StockSubtract {
		return nil, appErrors.NewValidation("type", "Type must be add or subtract")
	}
	return s.Inventory.AdjustStock(ctx, id, quantity, kind)
}

// Import upserts every valid row of an uploaded workbook by SKU. Row-level
// problems are reported in the result; a rejected file is a validation error.
func (s *InventoryService) Import(ctx context.Context, r io.Reader, filename string) (*model.ImportResult, error) {
	rows, err := spreadsheet.ReadRows(r, filename)
	if err != nil {
		return nil, appErrors.NewValidation("file", err.Error())
	}
	items, problems, err := spreadsheet.ParseInventory(rows)
	if err != nil {
		return nil, appErrors.NewValidation("file", err.Error())
	}

	result := &model.ImportResult{Skipped: len(problems), Errors: problems}
	for i := range items {
		created, err := s.Inventory.UpsertBySKU(ctx, &items[i])
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("sku %s: %v", items[i].SKU, err))
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}
