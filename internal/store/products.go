package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"recount/internal/model"
)

// ErrNotFound is returned when a looked-up document does not exist.
var ErrNotFound = errors.New("record not found")

const productColumns = `id, name, category, signature, price, stock, initial_stock,
	initial_stock_date, min_stock, description, created_at, updated_at`

// CreateProduct inserts a product with a store-assigned id and returns it.
func (s *Store) CreateProduct(p *model.CleanProduct) (*model.CleanProduct, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO clean_products (
			id, name, category, signature, price, stock, initial_stock,
			initial_stock_date, min_stock, description, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Category, p.Signature, p.Price, p.Stock, p.InitialStock,
		p.InitialStockDate, p.MinStock, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

// GetProductByID fetches one product.
func (s *Store) GetProductByID(id string) (*model.CleanProduct, error) {
	row := s.db.QueryRow("SELECT "+productColumns+" FROM clean_products WHERE id = ?", id)
	return scanProduct(row)
}

// GetProductBySignature fetches the product owning a signature, if any.
func (s *Store) GetProductBySignature(signature string) (*model.CleanProduct, error) {
	row := s.db.QueryRow("SELECT "+productColumns+" FROM clean_products WHERE signature = ?", signature)
	return scanProduct(row)
}

// ProductQueryOptions filters ListProducts; nil fields are ignored.
type ProductQueryOptions struct {
	Category *string
	Limit    int
	Offset   int
}

// ListProducts returns products ordered by name.
func (s *Store) ListProducts(opts ProductQueryOptions) ([]*model.CleanProduct, error) {
	query := "SELECT " + productColumns + " FROM clean_products WHERE 1=1"
	args := []interface{}{}

	if opts.Category != nil {
		query += " AND category = ?"
		args = append(args, *opts.Category)
	}

	query += " ORDER BY name, category"

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
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var results []*model.CleanProduct
	for rows.Next() {
		p, err := scanProductRows(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}

// UpdateProduct applies a partial field update and bumps updated_at.
func (s *Store) UpdateProduct(id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := []string{}
	args := []interface{}{}
	for field, value := range updates {
		setClauses = append(setClauses, field+" = ?")
		args = append(args, value)
	}
	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	query := fmt.Sprintf("UPDATE clean_products SET %s WHERE id = ?",
		strings.Join(setClauses, ", "))

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// CountProducts counts the whole catalog.
func (s *Store) CountProducts() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM clean_products").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProductInto(sc rowScanner) (*model.CleanProduct, error) {
	p := &model.CleanProduct{}
	err := sc.Scan(
		&p.ID, &p.Name, &p.Category, &p.Signature, &p.Price, &p.Stock,
		&p.InitialStock, &p.InitialStockDate, &p.MinStock, &p.Description,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return p, nil
}

func scanProduct(row *sql.Row) (*model.CleanProduct, error) {
	return scanProductInto(row)
}

func scanProductRows(rows *sql.Rows) (*model.CleanProduct, error) {
	return scanProductInto(rows)
}
