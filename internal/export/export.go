package export

import (
	"fmt"

	"recount/internal/model"
	"recount/internal/store"
)

// Exporter writes the canonical sale collection out for spreadsheet tooling.
type Exporter struct {
	store *store.Store
}

// NewExporter creates an exporter over the store.
func NewExporter(st *store.Store) *Exporter {
	return &Exporter{store: st}
}

// Options narrows the exported window. Zero-value options export the
// whole collection.
type Options struct {
	Query store.SaleQueryOptions
}

// columnHeaders is the fixed column order of both output formats. Amount
// is the unit price; Total carries the signed line total.
var columnHeaders = []string{
	"Product", "Category", "Register", "Date", "Seller",
	"Quantity", "Amount", "Total",
}

const exportDateLayout = "02/01/2006"

// loadSales reads the canonical sales, not the raw log, so exports always
// reflect the last rebuild.
func (e *Exporter) loadSales(opts Options) ([]model.SaleRecord, error) {
	cleanSales, err := e.store.ListCleanSales(opts.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales for export: %w", err)
	}
	sales := make([]model.SaleRecord, len(cleanSales))
	for i, s := range cleanSales {
		sales[i] = s.SaleView()
	}
	return sales, nil
}
