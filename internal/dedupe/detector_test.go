package dedupe

import (
	"testing"
	"time"

	"recount/internal/model"
)

func sale(row int, product string, qty int, price, total float64) model.SaleRecord {
	return model.SaleRecord{
		Row:      row,
		Product:  product,
		Category: "BOISSONS",
		Register: "Caisse 1",
		Date:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Seller:   "Marie",
		Quantity: qty,
		Price:    price,
		Total:    total,
	}
}

func TestSaleKey_CollapsesCaseAndRounding(t *testing.T) {
	t.Parallel()

	a := sale(2, "Coca-Cola", 2, 10.001, 20.001)
	b := sale(9, "  COCA-COLA ", 2, 10.00, 20.00)
	if SaleKey(a) != SaleKey(b) {
		t.Fatalf("keys differ:\n%s\n%s", SaleKey(a), SaleKey(b))
	}

	c := sale(3, "Coca-Cola", 3, 10.00, 30.00)
	if SaleKey(a) == SaleKey(c) {
		t.Fatalf("different quantities must not collide")
	}
}

func TestDetector_TwoTierClassification(t *testing.T) {
	t.Parallel()

	persisted := []model.SaleRecord{sale(0, "Coca-Cola", 2, 10, 20)}
	d := NewDetector(persisted)

	kind, _ := d.Classify(sale(2, "coca-cola", 2, 10, 20))
	if kind != OfExisting {
		t.Fatalf("kind = %v, want OfExisting", kind)
	}

	kind, _ = d.Classify(sale(3, "Fanta", 1, 5, 5))
	if kind != NotDuplicate {
		t.Fatalf("kind = %v, want NotDuplicate", kind)
	}

	kind, firstRow := d.Classify(sale(7, "Fanta", 1, 5, 5))
	if kind != WithinBatch || firstRow != 3 {
		t.Fatalf("kind = %v row %d, want WithinBatch row 3", kind, firstRow)
	}
}

func TestFindProductDuplicates(t *testing.T) {
	t.Parallel()

	rows := []model.ProductRecord{
		{Row: 2, Name: "Eau 1L", Category: "BOISSONS", Price: 1.20},
		{Row: 3, Name: "eau 1l", Category: "BOISSONS", Price: 1.20},
		{Row: 4, Name: "Chips", Category: "ALIMENTAIRE", Price: 2.50},
		{Row: 5, Name: "Chips", Category: "ALIMENTAIRE", Price: 2.90},
		{Row: 6, Name: "Savon", Category: "HYGIENE", Price: 3.00},
	}

	infos := FindProductDuplicates(rows)
	if len(infos) != 2 {
		t.Fatalf("got %d groups, want 2: %v", len(infos), infos)
	}

	if infos[0].ConflictType != model.ConflictExact {
		t.Fatalf("first group = %v, want exact", infos[0].ConflictType)
	}
	if len(infos[0].Rows) != 2 || infos[0].Rows[0] != 2 {
		t.Fatalf("first group rows = %v", infos[0].Rows)
	}

	if infos[1].ConflictType != model.ConflictPriceConflict {
		t.Fatalf("second group = %v, want price_conflict", infos[1].ConflictType)
	}
}
