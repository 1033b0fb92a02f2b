package stock

import (
	"testing"
	"time"

	"recount/internal/model"
)

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func product(name, category string, initial int, cutoff string) *model.CleanProduct {
	return &model.CleanProduct{
		ID:               name + "|" + category,
		Name:             name,
		Category:         category,
		InitialStock:     initial,
		InitialStockDate: cutoff,
		MinStock:         5,
	}
}

func saleOn(day string, product string, qty int) model.SaleRecord {
	d, _ := time.Parse("2006-01-02", day)
	return model.SaleRecord{
		Product:  product,
		Category: "BOISSONS",
		Date:     d,
		Quantity: qty,
	}
}

func TestCompute_CutoffSplitsSales(t *testing.T) {
	t.Parallel()

	c := NewCalculator()
	p := product("Coca-Cola", "BOISSONS", 100, "2024-03-01")
	sales := []model.SaleRecord{
		saleOn("2024-02-15", "Coca-Cola", 10), // predates the baseline
		saleOn("2024-03-10", "Coca-Cola", 30),
	}

	result := c.Compute(p, sales, now)

	if result.FinalStock != 70 {
		t.Fatalf("final stock = %d, want 70", result.FinalStock)
	}
	if len(result.ValidSales) != 1 || len(result.IgnoredSales) != 1 {
		t.Fatalf("valid=%d ignored=%d, want 1/1", len(result.ValidSales), len(result.IgnoredSales))
	}
	if !result.HasInconsistentStock {
		t.Fatalf("predating sales must flag an inconsistency")
	}
	if result.WarningMessage == "" {
		t.Fatalf("expected a warning message")
	}
}

func TestCompute_NoCutoffDeductsEverything(t *testing.T) {
	t.Parallel()

	c := NewCalculator()
	p := product("Coca-Cola", "BOISSONS", 100, "")
	sales := []model.SaleRecord{
		saleOn("2024-02-15", "Coca-Cola", 10),
		saleOn("2024-03-10", "Coca-Cola", 30),
	}

	result := c.Compute(p, sales, now)
	if result.FinalStock != 60 {
		t.Fatalf("final stock = %d, want 60", result.FinalStock)
	}
	if result.HasInconsistentStock {
		t.Fatalf("no cutoff, no inconsistency")
	}
}

func TestCompute_SaleOnCutoffDayCounts(t *testing.T) {
	t.Parallel()

	c := NewCalculator()
	p := product("Coca-Cola", "BOISSONS", 50, "2024-03-01")
	sales := []model.SaleRecord{saleOn("2024-03-01", "Coca-Cola", 5)}

	result := c.Compute(p, sales, now)
	if result.FinalStock != 45 || len(result.IgnoredSales) != 0 {
		t.Fatalf("stock=%d ignored=%d, cutoff-day sales must count", result.FinalStock, len(result.IgnoredSales))
	}
}

func TestCompute_NeverNegative(t *testing.T) {
	t.Parallel()

	c := NewCalculator()
	p := product("Coca-Cola", "BOISSONS", 10, "")
	sales := []model.SaleRecord{saleOn("2024-03-10", "Coca-Cola", 500)}

	if result := c.Compute(p, sales, now); result.FinalStock != 0 {
		t.Fatalf("final stock = %d, want 0", result.FinalStock)
	}
}

func TestCompute_FutureCutoffWarnsWithoutBlocking(t *testing.T) {
	t.Parallel()

	c := NewCalculator()
	p := product("Coca-Cola", "BOISSONS", 20, "2030-01-01")
	sales := []model.SaleRecord{saleOn("2024-03-10", "Coca-Cola", 3)}

	result := c.Compute(p, sales, now)
	if !result.FutureStockDate {
		t.Fatalf("future baseline must be flagged")
	}
	// All sales predate a future cutoff, so they are all ignored.
	if result.FinalStock != 20 || !result.HasInconsistentStock {
		t.Fatalf("stock=%d inconsistent=%v", result.FinalStock, result.HasInconsistentStock)
	}
}

func TestMatchSales_CategoryExactNameContainment(t *testing.T) {
	t.Parallel()

	c := NewCalculator()
	p := product("Coca-Cola", "BOISSONS", 0, "")
	sales := []model.SaleRecord{
		saleOn("2024-03-10", "Coca-Cola 33cl", 1), // name containment
		saleOn("2024-03-10", "coca-cola", 1),      // case fold
		saleOn("2024-03-10", "Fanta", 1),
		{Product: "Coca-Cola", Category: "ALIMENTAIRE",
			Date: now, Quantity: 1}, // wrong category
	}

	matched := c.MatchSales(p, sales)
	if len(matched) != 2 {
		t.Fatalf("matched %d sales, want 2: %v", len(matched), matched)
	}
}

func TestInvalidate_DropsCache(t *testing.T) {
	t.Parallel()

	c := NewCalculator()
	p := product("Coca-Cola", "BOISSONS", 10, "")

	first := c.MatchSales(p, []model.SaleRecord{saleOn("2024-03-10", "Coca-Cola", 1)})
	if len(first) != 1 {
		t.Fatalf("matched %d, want 1", len(first))
	}

	// Without invalidation the stale list would be served.
	c.Invalidate()
	second := c.MatchSales(p, []model.SaleRecord{
		saleOn("2024-03-10", "Coca-Cola", 1),
		saleOn("2024-03-11", "Coca-Cola", 2),
	})
	if len(second) != 2 {
		t.Fatalf("matched %d after invalidate, want 2", len(second))
	}
}

func TestFleet(t *testing.T) {
	t.Parallel()

	c := NewCalculator()
	products := []*model.CleanProduct{
		product("Coca-Cola", "BOISSONS", 100, ""),
		product("Fanta", "BOISSONS", 3, ""),  // low (<= minStock 5)
		product("Sprite", "BOISSONS", 0, ""), // out
	}

	summary := c.Fleet(products, nil, now)
	if summary.Products != 3 || summary.TotalStock != 103 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.OutOfStock != 1 || summary.LowStock != 1 {
		t.Fatalf("out=%d low=%d, want 1/1", summary.OutOfStock, summary.LowStock)
	}
}
