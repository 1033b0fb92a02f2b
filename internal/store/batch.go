package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"recount/internal/model"
)

// MaxBatchSize bounds the number of rows one transaction carries.
const MaxBatchSize = 500

// Batch collects writes that must land atomically: either every queued
// document is committed or none is.
type Batch struct {
	Products []*model.CleanProduct
	Sales    []*model.CleanSale
	RawSales []model.SaleRecord
}

// Len is the number of queued writes.
func (b *Batch) Len() int {
	return len(b.Products) + len(b.Sales) + len(b.RawSales)
}

// ApplyBatch commits all queued writes in one transaction. Ids are
// store-assigned for documents that carry none.
func (s *Store) ApplyBatch(b *Batch) error {
	if b == nil || b.Len() == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	if len(b.Products) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO clean_products (
				id, name, category, signature, price, stock, initial_stock,
				initial_stock_date, min_stock, description, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare product insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range b.Products {
			if p.ID == "" {
				p.ID = uuid.NewString()
			}
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
				p.UpdatedAt = now
			}
			if _, err := stmt.Exec(p.ID, p.Name, p.Category, p.Signature, p.Price,
				p.Stock, p.InitialStock, p.InitialStockDate, p.MinStock,
				p.Description, p.CreatedAt, p.UpdatedAt); err != nil {
				return fmt.Errorf("failed to insert product %q: %w", p.Name, err)
			}
		}
	}

	if len(b.Sales) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO clean_sales (
				id, product_id, product_signature, product, category, register,
				date, seller, quantity, price, total, created_at, cleaned
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare sale insert: %w", err)
		}
		defer stmt.Close()

		for _, sale := range b.Sales {
			if sale.ID == "" {
				sale.ID = uuid.NewString()
			}
			if sale.CreatedAt.IsZero() {
				sale.CreatedAt = now
			}
			if _, err := stmt.Exec(sale.ID, sale.ProductID, sale.ProductSignature,
				sale.Product, sale.Category, sale.Register, sale.Date.Format(isoDay),
				sale.Seller, sale.Quantity, sale.Price, sale.Total, sale.CreatedAt,
				sale.Cleaned); err != nil {
				return fmt.Errorf("failed to insert sale for %q: %w", sale.Product, err)
			}
		}
	}

	if len(b.RawSales) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO raw_sales (
				id, product, category, register, date, seller, quantity, price, total, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare raw sale insert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range b.RawSales {
			if _, err := stmt.Exec(uuid.NewString(), rec.Product, rec.Category,
				rec.Register, rec.Date.Format(isoDay), rec.Seller, rec.Quantity,
				rec.Price, rec.Total, now); err != nil {
				return fmt.Errorf("failed to insert raw sale for %q: %w", rec.Product, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
