package sheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"recount/internal/model"
)

// Reader adapts an Excel workbook to the loose-row representation consumed
// by the import pipeline.
type Reader struct {
	file *excelize.File
}

// OpenReader loads a workbook from a stream (an upload, typically).
func OpenReader(r io.Reader) (*Reader, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Reader{file: file}, nil
}

// OpenFile loads a workbook from disk.
func OpenFile(path string) (*Reader, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Reader{file: file}, nil
}

// Close releases the underlying workbook.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// SheetNames lists the workbook's sheets in order.
func (r *Reader) SheetNames() []string {
	return r.file.GetSheetList()
}

// Rows reads one sheet into raw rows keyed by the original headers of its
// first row. Cells are read raw so numeric cells (Excel serial dates
// included) stay numeric. Row indices are the 1-based sheet positions, for
// provenance in error reports. Fully empty rows are skipped.
func (r *Reader) Rows(sheetName string) ([]string, []model.RawRow, error) {
	rows, err := r.file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("empty sheet")
	}

	headers := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		headers = append(headers, strings.TrimSpace(h))
	}

	out := make([]model.RawRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		row := model.RawRow{
			Index: i + 2, // header row is 1
			Cells: make(map[string]model.CellValue, len(headers)),
		}
		empty := true
		for col, header := range headers {
			if header == "" || col >= len(cells) {
				continue
			}
			value := classifyCell(cells[col])
			if !value.IsEmpty() {
				empty = false
			}
			row.Cells[header] = value
		}
		if empty {
			continue
		}
		out = append(out, row)
	}

	return headers, out, nil
}

// FirstSheet reads the workbook's first sheet.
func (r *Reader) FirstSheet() ([]string, []model.RawRow, error) {
	names := r.SheetNames()
	if len(names) == 0 {
		return nil, nil, errors.New("workbook has no sheets")
	}
	return r.Rows(names[0])
}

// classifyCell folds a raw cell string into the typed variant. Everything
// that parses as a float is numeric; Excel stores dates that way too.
func classifyCell(raw string) model.CellValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.EmptyCell()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return model.NumberCell(f)
	}
	return model.TextCell(raw)
}
