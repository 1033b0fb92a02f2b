package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"
	"time"

	"recount/internal/model"
	"recount/internal/store"
)

func seededExporter(t *testing.T) *Exporter {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	batch := &store.Batch{
		Sales: []*model.CleanSale{
			{Product: "Coca-Cola", Category: "BOISSONS", Register: "Caisse 1",
				Date:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
				Seller: "Marie", Quantity: 2, Price: 1.50, Total: 3.00},
			{Product: "Eau 1L", Category: "BOISSONS", Register: "Caisse 1",
				Date:   time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
				Seller: "Luc", Quantity: 1, Price: -1.20, Total: -1.20},
		},
		// A raw row the rebuild has not picked up yet must stay invisible.
		RawSales: []model.SaleRecord{
			{Product: "Chips", Category: "ALIMENTAIRE", Register: "Caisse 2",
				Date:   time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC),
				Seller: "Anna", Quantity: 1, Price: 2.00, Total: 2.00},
		},
	}
	if err := st.ApplyBatch(batch); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewExporter(st)
}

func TestWriteCSV(t *testing.T) {
	e := seededExporter(t)

	var buf bytes.Buffer
	if err := e.WriteCSV(&buf, Options{}); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	cr := csv.NewReader(&buf)
	records, err := cr.ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d lines, want header + 2 canonical rows", len(records))
	}
	if records[0][0] != "Product" {
		t.Fatalf("header = %v", records[0])
	}

	first := records[1]
	if first[0] != "Coca-Cola" || first[3] != "15/03/2024" || first[5] != "2" || first[7] != "3.00" {
		t.Fatalf("row = %v", first)
	}
	// Refund rows keep their sign.
	if records[2][7] != "-1.20" {
		t.Fatalf("refund total = %q, want -1.20", records[2][7])
	}
	for _, rec := range records[1:] {
		if rec[0] == "Chips" {
			t.Fatalf("raw-only sale leaked into the export: %v", rec)
		}
	}
}

func TestWriteCSVEmptyCollection(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	var buf bytes.Buffer
	if err := NewExporter(st).WriteCSV(&buf, Options{}); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d lines, want header only", len(records))
	}
}
