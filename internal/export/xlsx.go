package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const salesSheetName = "Ventes"

// WriteXLSX builds a styled workbook with one sheet holding the selected
// sales and streams it to w.
func (e *Exporter) WriteXLSX(w io.Writer, opts Options) error {
	sales, err := e.loadSales(opts)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(salesSheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headerRow := make([]interface{}, len(columnHeaders))
	for i, h := range columnHeaders {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(salesSheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columnHeaders))
	if err := f.SetCellStyle(salesSheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	for i, s := range sales {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			s.Product,
			s.Category,
			s.Register,
			s.Date.Format(exportDateLayout),
			s.Seller,
			s.Quantity,
			s.Price,
			s.Total,
		}
		if err := f.SetSheetRow(salesSheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(salesSheetName, "A", "B", 24); err != nil {
		return fmt.Errorf("failed to set column widths: %w", err)
	}
	if err := f.SetColWidth(salesSheetName, "C", lastCol, 14); err != nil {
		return fmt.Errorf("failed to set column widths: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
