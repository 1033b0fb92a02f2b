package store

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"recount/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestProductRoundTrip(t *testing.T) {
	st := newTestStore(t)

	created, err := st.CreateProduct(&model.CleanProduct{
		Name:      "Coca-Cola",
		Category:  "BOISSONS",
		Signature: "coca-cola|boissons",
		Price:     1.50,
		Stock:     100,
		MinStock:  20,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("id not assigned")
	}

	byID, err := st.GetProductByID(created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Name != "Coca-Cola" || byID.Price != 1.50 {
		t.Fatalf("got %+v", byID)
	}

	bySig, err := st.GetProductBySignature("coca-cola|boissons")
	if err != nil {
		t.Fatalf("get by signature: %v", err)
	}
	if bySig.ID != created.ID {
		t.Fatalf("signature lookup returned %s, want %s", bySig.ID, created.ID)
	}

	if _, err := st.GetProductBySignature("missing|missing"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestProductSignatureUnique(t *testing.T) {
	st := newTestStore(t)

	p := &model.CleanProduct{Name: "Fanta", Category: "BOISSONS", Signature: "fanta|boissons"}
	if _, err := st.CreateProduct(p); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := &model.CleanProduct{Name: "Fanta", Category: "BOISSONS", Signature: "fanta|boissons"}
	if _, err := st.CreateProduct(dup); err == nil {
		t.Fatalf("duplicate signature must be rejected")
	}
}

func TestUpdateProduct(t *testing.T) {
	st := newTestStore(t)

	p, err := st.CreateProduct(&model.CleanProduct{
		Name: "Savon", Category: "HYGIENE", Signature: "savon|hygiene",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = st.UpdateProduct(p.ID, map[string]interface{}{
		"stock":              42,
		"initial_stock":      42,
		"initial_stock_date": "2024-03-01",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := st.GetProductByID(p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stock != 42 || got.InitialStockDate != "2024-03-01" {
		t.Fatalf("got %+v", got)
	}
}

func TestApplyBatch_RawSalesRoundTrip(t *testing.T) {
	st := newTestStore(t)

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	batch := &Batch{RawSales: []model.SaleRecord{
		{Product: "Coca-Cola", Category: "BOISSONS", Register: "Caisse 1",
			Date: day, Seller: "Marie", Quantity: 2, Price: 1.50, Total: 3.00},
		{Product: "Chips", Category: "ALIMENTAIRE", Register: "Caisse 2",
			Date: day.AddDate(0, 0, 1), Seller: "Luc", Quantity: 1, Price: 2.50, Total: 2.50},
	}}
	if err := st.ApplyBatch(batch); err != nil {
		t.Fatalf("apply: %v", err)
	}

	all, err := st.ListRawSales(SaleQueryOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d sales, want 2", len(all))
	}

	category := "BOISSONS"
	filtered, err := st.ListRawSales(SaleQueryOptions{Category: &category})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Product != "Coca-Cola" {
		t.Fatalf("filtered = %v", filtered)
	}
	if !filtered[0].Date.Equal(day) {
		t.Fatalf("date round trip = %v, want %v", filtered[0].Date, day)
	}

	from := day.AddDate(0, 0, 1)
	windowed, err := st.ListRawSales(SaleQueryOptions{From: &from})
	if err != nil {
		t.Fatalf("list windowed: %v", err)
	}
	if len(windowed) != 1 || windowed[0].Product != "Chips" {
		t.Fatalf("windowed = %v", windowed)
	}

	count, err := st.CountRawSales()
	if err != nil || count != 2 {
		t.Fatalf("count = %d err %v, want 2", count, err)
	}
}

func TestDeleteCleanData(t *testing.T) {
	st := newTestStore(t)

	batch := &Batch{
		Products: []*model.CleanProduct{
			{Name: "Coca-Cola", Category: "BOISSONS", Signature: "coca-cola|boissons"},
		},
		Sales: []*model.CleanSale{
			{Product: "Coca-Cola", Category: "BOISSONS", ProductSignature: "coca-cola|boissons",
				Date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), Quantity: 1, Total: 1.50},
		},
	}
	if err := st.ApplyBatch(batch); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if err := st.DeleteCleanData(); err != nil {
		t.Fatalf("delete: %v", err)
	}

	products, err := st.CountProducts()
	if err != nil || products != 0 {
		t.Fatalf("products = %d err %v, want 0", products, err)
	}
	sales, err := st.CountCleanSales()
	if err != nil || sales != 0 {
		t.Fatalf("sales = %d err %v, want 0", sales, err)
	}
}

func TestConfigValues(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.GetConfigValue("missing"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := st.SetConfigValue("last_import", "2024-03-15"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.SetConfigValue("last_import", "2024-03-16"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := st.GetConfigValue("last_import")
	if err != nil || got != "2024-03-16" {
		t.Fatalf("got %q err %v", got, err)
	}
}

func TestListSalesRejectsCorruptDate(t *testing.T) {
	st := newTestStore(t)

	_, err := st.db.Exec(`INSERT INTO raw_sales (
		id, product, category, register, date, seller, quantity, price, total, created_at
	) VALUES ('bad-date-row', 'Chips', 'ALIMENTAIRE', 'Caisse 1', 'garbage', 'Anna', 1, 2.0, 2.0, ?)`,
		time.Now().UTC())
	if err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}

	if _, err := st.ListRawSales(SaleQueryOptions{}); err == nil {
		t.Fatal("expected an error for an unparseable stored date")
	} else if !strings.Contains(err.Error(), "garbage") {
		t.Fatalf("err = %v, want the corrupt value named", err)
	}
}
