package catalog

import (
	"path/filepath"
	"testing"
	"time"

	"recount/internal/model"
	"recount/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestResolver_OneProductPerSignature(t *testing.T) {
	st := newTestStore(t)
	r := NewResolver(st)
	batch := &store.Batch{}

	rec := model.SaleRecord{
		Product:  "Coca-Cola",
		Category: "BOISSONS",
		Date:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Quantity: 2,
		Price:    1.50,
		Total:    3.00,
	}

	first, err := r.Resolve(rec, batch)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Same signature under different casing resolves to the same product
	// without a second creation.
	rec.Product = "  COCA-COLA "
	second, err := r.Resolve(rec, batch)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected one product, got %s and %s", first.ID, second.ID)
	}
	if r.Created() != 1 || len(batch.Products) != 1 {
		t.Fatalf("created=%d queued=%d, want 1/1", r.Created(), len(batch.Products))
	}
	if first.Price != 1.50 {
		t.Fatalf("first sale must seed the price, got %v", first.Price)
	}
	if first.MinStock != 5 {
		t.Fatalf("new product min stock = %d, want 5", first.MinStock)
	}
}

func TestResolver_ReusesPersistedProduct(t *testing.T) {
	st := newTestStore(t)

	seed := &store.Batch{}
	r1 := NewResolver(st)
	rec := model.SaleRecord{Product: "Fanta", Category: "BOISSONS", Quantity: 1, Price: 2, Total: 2}
	if _, err := r1.Resolve(rec, seed); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := st.ApplyBatch(seed); err != nil {
		t.Fatalf("apply: %v", err)
	}

	// A fresh resolver finds the persisted product instead of creating one.
	r2 := NewResolver(st)
	batch := &store.Batch{}
	p, err := r2.Resolve(rec, batch)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if r2.Created() != 0 || len(batch.Products) != 0 {
		t.Fatalf("created=%d queued=%d, want 0/0", r2.Created(), len(batch.Products))
	}
	if p.Signature != Signature("Fanta", "BOISSONS") {
		t.Fatalf("signature = %q", p.Signature)
	}
}

func TestResolveBaseline_SetsInitialStock(t *testing.T) {
	st := newTestStore(t)
	r := NewResolver(st)
	batch := &store.Batch{}

	rec := model.ProductRecord{
		Name:     "Savon",
		Category: "HYGIENE",
		Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Price:    3.50,
		Stock:    100,
	}
	p, err := r.ResolveBaseline(rec, batch)
	if err != nil {
		t.Fatalf("resolve baseline: %v", err)
	}
	if p.InitialStock != 100 || p.Stock != 100 {
		t.Fatalf("stock = %d/%d, want 100/100", p.Stock, p.InitialStock)
	}
	if p.InitialStockDate != "2024-03-01" {
		t.Fatalf("baseline date = %q", p.InitialStockDate)
	}
	if p.MinStock != 20 {
		t.Fatalf("min stock = %d, want 20", p.MinStock)
	}
}
