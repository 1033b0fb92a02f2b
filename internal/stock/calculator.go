package stock

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"recount/internal/model"
)

var spacesRE = regexp.MustCompile(`\s+`)

// normalizeKey folds a name or category for matching: trimmed, lowercased,
// inner whitespace collapsed.
func normalizeKey(s string) string {
	return spacesRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// Calculator derives live stock from a product's initial baseline and the
// full sale corpus. Matched-sale lists are cached per product id; callers
// must Invalidate whenever the sale corpus changes, or reads go stale.
type Calculator struct {
	mu    sync.RWMutex
	cache map[string][]model.SaleRecord
}

// NewCalculator builds a calculator with an empty cache.
func NewCalculator() *Calculator {
	return &Calculator{cache: make(map[string][]model.SaleRecord)}
}

// Invalidate drops every cached sale list.
func (c *Calculator) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string][]model.SaleRecord)
}

// MatchSales selects the sales belonging to a product. The match works on
// normalized name/category instead of product ids because legacy raw-log
// rows carry no foreign key: exact match on both fields, or, when the
// categories match exactly, a containment match on the names. Intentionally
// permissive towards near-duplicate naming in raw logs.
func (c *Calculator) MatchSales(p *model.CleanProduct, sales []model.SaleRecord) []model.SaleRecord {
	c.mu.RLock()
	cached, ok := c.cache[p.ID]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	name := normalizeKey(p.Name)
	category := normalizeKey(p.Category)

	matched := make([]model.SaleRecord, 0)
	for _, sale := range sales {
		saleName := normalizeKey(sale.Product)
		saleCategory := normalizeKey(sale.Category)

		if saleCategory != category {
			continue
		}
		if saleName == name ||
			strings.Contains(saleName, name) || strings.Contains(name, saleName) {
			matched = append(matched, sale)
		}
	}

	c.mu.Lock()
	c.cache[p.ID] = matched
	c.mu.Unlock()
	return matched
}

// Compute derives the current stock for one product. With a cutoff set,
// sales strictly before the cutoff day are ignored for stock purposes and
// flagged as an inconsistency; without one, every matched sale is deducted
// from the baseline. The result is a view, never persisted.
func (c *Calculator) Compute(p *model.CleanProduct, sales []model.SaleRecord, now time.Time) model.StockResult {
	matched := c.MatchSales(p, sales)

	result := model.StockResult{
		ValidSales:   []model.SaleRecord{},
		IgnoredSales: []model.SaleRecord{},
	}

	cutoff, hasCutoff := p.CutoffDate()
	if !hasCutoff {
		deducted := 0
		for _, sale := range matched {
			deducted += sale.Quantity
		}
		result.ValidSales = matched
		result.FinalStock = clampStock(p.InitialStock - deducted)
		return result
	}

	ignoredQuantity := 0
	deducted := 0
	for _, sale := range matched {
		if sale.Date.Before(cutoff) {
			result.IgnoredSales = append(result.IgnoredSales, sale)
			ignoredQuantity += sale.Quantity
			continue
		}
		result.ValidSales = append(result.ValidSales, sale)
		deducted += sale.Quantity
	}

	result.FinalStock = clampStock(p.InitialStock - deducted)

	if len(result.IgnoredSales) > 0 {
		result.HasInconsistentStock = true
		result.WarningMessage = fmt.Sprintf(
			"%d sale(s) totaling %d unit(s) predate the initial stock date %s and were ignored",
			len(result.IgnoredSales), ignoredQuantity, p.InitialStockDate)
	}

	// A future baseline is suspicious but never blocks the computation.
	if cutoff.After(now) {
		result.FutureStockDate = true
		if result.WarningMessage != "" {
			result.WarningMessage += "; "
		}
		result.WarningMessage += fmt.Sprintf("initial stock date %s is in the future", p.InitialStockDate)
	}

	return result
}

// Fleet aggregates per-product stock figures across the catalog, each
// product computed independently through the same calculation.
func (c *Calculator) Fleet(products []*model.CleanProduct, sales []model.SaleRecord, now time.Time) model.FleetStockSummary {
	summary := model.FleetStockSummary{Products: len(products)}

	for _, p := range products {
		result := c.Compute(p, sales, now)
		summary.TotalStock += result.FinalStock

		switch {
		case result.FinalStock == 0:
			summary.OutOfStock++
		case result.FinalStock <= p.MinStock:
			summary.LowStock++
		}
		if result.HasInconsistentStock {
			summary.InconsistentStock++
		}
	}

	return summary
}

func clampStock(stock int) int {
	if stock < 0 {
		return 0
	}
	return stock
}
