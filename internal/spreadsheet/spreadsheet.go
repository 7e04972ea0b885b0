// Package spreadsheet reads inventory uploads and writes report workbooks.
package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/unclebandit/hvac-backend/internal/model"
)

const maxRows = 100000

// ReadRows returns every row of the first worksheet. Files ending in .xls
// are read as legacy BIFF workbooks; anything else as .xlsx.
func ReadRows(reader io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		if workbook.NumSheets() == 0 {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows := workbook.ReadAllCells(maxRows)
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	case ".xlsx":
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()

		sheet := file.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows, err := file.GetRows(sheet)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q; upload .xlsx or .xls", filepath.Ext(filename))
	}
}

// InventoryColumns is the expected header row of an inventory upload.
var InventoryColumns = []string{"sku", "name", "category", "unitCost", "sellingPrice", "quantity", "reorderPoint"}

// ParseInventory maps rows (header first) onto inventory items. Rows that
// cannot be parsed are reported by spreadsheet row number and left out.
func ParseInventory(rows [][]string) ([]model.InventoryItem, []string, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("worksheet is empty")
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[normalizeHeader(h)] = i
	}
	for _, col := range []string{"sku", "name", "category"} {
		if _, ok := index[normalizeHeader(col)]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", col)
		}
	}

	items := []model.InventoryItem{}
	problems := []string{}
	for n, row := range rows[1:] {
		line := n + 2
		get := func(col string) string {
			i, ok := index[normalizeHeader(col)]
			if !ok {
				return ""
			}
			return cellValue(row, i)
		}

		if isBlank(row) {
			continue
		}
		item := model.InventoryItem{
			SKU:      get("sku"),
			Name:     get("name"),
			Category: get("category"),
			IsActive: true,
		}
		if item.SKU == "" || item.Name == "" || item.Category == "" {
			problems = append(problems, fmt.Sprintf("row %d: sku, name and category are required", line))
			continue
		}

		var err error
		if item.UnitCost, err = parseFloat(get("unitCost")); err != nil {
			problems = append(problems, fmt.Sprintf("row %d: invalid unitCost", line))
			continue
		}
		if item.SellingPrice, err = parseFloat(get("sellingPrice")); err != nil {
			problems = append(problems, fmt.Sprintf("row %d: invalid sellingPrice", line))
			continue
		}
		if item.Quantity, err = parseInt(get("quantity")); err != nil || item.Quantity < 0 {
			problems = append(problems, fmt.Sprintf("row %d: invalid quantity", line))
			continue
		}
		if item.ReorderPoint, err = parseInt(get("reorderPoint")); err != nil {
			problems = append(problems, fmt.Sprintf("row %d: invalid reorderPoint", line))
			continue
		}
		items = append(items, item)
	}
	return items, problems, nil
}

// WriteRevenue writes the revenue report as a single-sheet .xlsx workbook.
func WriteRevenue(w io.Writer, rng model.ReportRange, rows []model.RevenueRow) error {
	const sheet = "Revenue"

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Revenue report", rng.Start + " to " + rng.End, "by " + rng.GroupBy}); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A3", &[]interface{}{"Period", "Revenue", "Cost", "Profit"}); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A3", "D3", bold); err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	var revenue, cost, profit float64
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{r.Period, r.Revenue, r.Cost, r.Profit}); err != nil {
			return err
		}
		revenue += r.Revenue
		cost += r.Cost
		profit += r.Profit
	}

	last := len(rows) + 4
	totalCell, err := excelize.CoordinatesToCellName(1, last)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, totalCell, &[]interface{}{"Total", model.RoundMoney(revenue), model.RoundMoney(cost), model.RoundMoney(profit)}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "B4", fmt.Sprintf("D%d", last), money); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "D", 16); err != nil {
		return err
	}

	return f.Write(w)
}

func normalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	return strings.NewReplacer(" ", "", "_", "").Replace(h)
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimPrefix(strings.ReplaceAll(s, ",", ""), "$"), 64)
	if err != nil {
		return 0, err
	}
	return model.RoundMoney(v), nil
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
