package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV streams the selected sales as CSV: fixed column order, dates in
// DD/MM/YYYY, money with two decimals.
func (e *Exporter) WriteCSV(w io.Writer, opts Options) error {
	sales, err := e.loadSales(opts)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(columnHeaders); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, s := range sales {
		record := []string{
			s.Product,
			s.Category,
			s.Register,
			s.Date.Format(exportDateLayout),
			s.Seller,
			strconv.Itoa(s.Quantity),
			strconv.FormatFloat(s.Price, 'f', 2, 64),
			strconv.FormatFloat(s.Total, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
