package store

import (
	"fmt"
	"time"

	"recount/internal/model"
)

const isoDay = "2006-01-02"

// SaleQueryOptions filters sale listings; nil fields are ignored.
type SaleQueryOptions struct {
	Category *string
	Register *string
	Seller   *string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

func (o SaleQueryOptions) whereClause() (string, []interface{}) {
	query := " WHERE 1=1"
	args := []interface{}{}

	if o.Category != nil {
		query += " AND category = ?"
		args = append(args, *o.Category)
	}
	if o.Register != nil {
		query += " AND register = ?"
		args = append(args, *o.Register)
	}
	if o.Seller != nil {
		query += " AND seller = ?"
		args = append(args, *o.Seller)
	}
	if o.From != nil {
		query += " AND date >= ?"
		args = append(args, o.From.Format(isoDay))
	}
	if o.To != nil {
		query += " AND date <= ?"
		args = append(args, o.To.Format(isoDay))
	}

	return query, args
}

// ListRawSales reads the raw sales log ordered by date then insertion.
func (s *Store) ListRawSales(opts SaleQueryOptions) ([]model.SaleRecord, error) {
	where, args := opts.whereClause()
	query := "SELECT product, category, register, date, seller, quantity, price, total FROM raw_sales" +
		where + " ORDER BY date, created_at"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query raw sales: %w", err)
	}
	defer rows.Close()

	var results []model.SaleRecord
	for rows.Next() {
		var rec model.SaleRecord
		var date string
		if err := rows.Scan(&rec.Product, &rec.Category, &rec.Register, &date,
			&rec.Seller, &rec.Quantity, &rec.Price, &rec.Total); err != nil {
			return nil, fmt.Errorf("failed to scan raw sale: %w", err)
		}
		rec.Date, err = time.Parse(isoDay, date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse raw sale date %q: %w", date, err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}

// CountRawSales counts the raw log.
func (s *Store) CountRawSales() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM raw_sales").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count raw sales: %w", err)
	}
	return count, nil
}

// ListCleanSales reads the canonical sale collection ordered by date.
func (s *Store) ListCleanSales(opts SaleQueryOptions) ([]*model.CleanSale, error) {
	where, args := opts.whereClause()
	query := `SELECT id, product_id, product_signature, product, category, register,
		date, seller, quantity, price, total, created_at, cleaned FROM clean_sales` +
		where + " ORDER BY date, created_at"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query clean sales: %w", err)
	}
	defer rows.Close()

	var results []*model.CleanSale
	for rows.Next() {
		sale := &model.CleanSale{}
		var date string
		if err := rows.Scan(&sale.ID, &sale.ProductID, &sale.ProductSignature,
			&sale.Product, &sale.Category, &sale.Register, &date, &sale.Seller,
			&sale.Quantity, &sale.Price, &sale.Total, &sale.CreatedAt, &sale.Cleaned); err != nil {
			return nil, fmt.Errorf("failed to scan clean sale: %w", err)
		}
		sale.Date, err = time.Parse(isoDay, date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse clean sale date %q: %w", date, err)
		}
		results = append(results, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}

// CountCleanSales counts the canonical sale collection.
func (s *Store) CountCleanSales() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM clean_sales").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count clean sales: %w", err)
	}
	return count, nil
}

// DeleteCleanData empties both canonical collections. Rebuilds call this so
// a re-run converges to the same end state instead of stacking sale rows.
func (s *Store) DeleteCleanData() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM clean_sales"); err != nil {
		return fmt.Errorf("failed to clear clean_sales: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM clean_products"); err != nil {
		return fmt.Errorf("failed to clear clean_products: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
