package catalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"recount/internal/model"
	"recount/internal/store"
)

// Resolver maps sale records onto canonical product identities. An in-run
// memo amortizes repeated lookups, and guarantees at most one product per
// signature even when the same name/category appears across many raw rows.
//
// The memo assumes sequential use within one run; a Resolver is not safe
// for concurrent calls.
type Resolver struct {
	store   *store.Store
	memo    map[string]*model.CleanProduct
	created int
}

// NewResolver builds a resolver over the canonical store.
func NewResolver(st *store.Store) *Resolver {
	return &Resolver{
		store: st,
		memo:  make(map[string]*model.CleanProduct),
	}
}

// Created is the number of products this resolver has created so far.
func (r *Resolver) Created() int {
	return r.created
}

// Resolve finds the canonical product for a sale record, creating one when
// the signature is unknown. Newly created products are queued on the batch;
// they become visible to later batches once the batch is committed, which
// is why batches must be applied strictly in order.
func (r *Resolver) Resolve(rec model.SaleRecord, batch *store.Batch) (*model.CleanProduct, error) {
	signature := Signature(rec.Product, rec.Category)

	if p, ok := r.memo[signature]; ok {
		return p, nil
	}

	p, err := r.store.GetProductBySignature(signature)
	if err == nil {
		r.memo[signature] = p
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up signature %q: %w", signature, err)
	}

	// First sale seen for this signature seeds the product price.
	p = &model.CleanProduct{
		ID:        uuid.NewString(),
		Name:      rec.Product,
		Category:  rec.Category,
		Signature: signature,
		Price:     rec.Price,
		Stock:     0,
		MinStock:  DefaultMinStock(0),
	}
	batch.Products = append(batch.Products, p)
	r.memo[signature] = p
	r.created++
	return p, nil
}

// ResolveBaseline applies a stock-sheet observation: it creates the product
// with the observed stock as its initial baseline, or refreshes the
// baseline of an existing product.
func (r *Resolver) ResolveBaseline(rec model.ProductRecord, batch *store.Batch) (*model.CleanProduct, error) {
	signature := Signature(rec.Name, rec.Category)
	baselineDate := rec.Date.Format("2006-01-02")

	if p, ok := r.memo[signature]; ok {
		p.Stock = rec.Stock
		p.InitialStock = rec.Stock
		p.InitialStockDate = baselineDate
		return p, nil
	}

	p, err := r.store.GetProductBySignature(signature)
	if err == nil {
		updates := map[string]interface{}{
			"stock":              rec.Stock,
			"initial_stock":      rec.Stock,
			"initial_stock_date": baselineDate,
		}
		if rec.Price > 0 {
			updates["price"] = rec.Price
		}
		if err := r.store.UpdateProduct(p.ID, updates); err != nil {
			return nil, err
		}
		p.Stock = rec.Stock
		p.InitialStock = rec.Stock
		p.InitialStockDate = baselineDate
		r.memo[signature] = p
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up signature %q: %w", signature, err)
	}

	minStock := rec.MinStock
	if minStock <= 0 {
		minStock = DefaultMinStock(rec.Stock)
	}
	p = &model.CleanProduct{
		ID:               uuid.NewString(),
		Name:             rec.Name,
		Category:         rec.Category,
		Signature:        signature,
		Price:            rec.Price,
		Stock:            rec.Stock,
		InitialStock:     rec.Stock,
		InitialStockDate: baselineDate,
		MinStock:         minStock,
		Description:      rec.Description,
	}
	batch.Products = append(batch.Products, p)
	r.memo[signature] = p
	r.created++
	return p, nil
}
