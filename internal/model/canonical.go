package model

import "time"

// CleanProduct is one canonical product. At most one exists per distinct
// signature; the signature is derived at creation and never recomputed.
type CleanProduct struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Signature        string    `json:"signature"`
	Price            float64   `json:"price"`
	Stock            int       `json:"stock"`
	InitialStock     int       `json:"initialStock"`
	InitialStockDate string    `json:"initialStockDate,omitempty"` // ISO date, empty when no cutoff is set
	MinStock         int       `json:"minStock"`
	Description      string    `json:"description,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CutoffDate parses the initial-stock date. ok is false when no cutoff is
// set or the stored value does not parse.
func (p *CleanProduct) CutoffDate() (time.Time, bool) {
	if p.InitialStockDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", p.InitialStockDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CleanSale is one canonical, deduplicated sale event. ProductSignature is
// the signature of the referenced product at write time; renaming the
// product later does not touch it.
type CleanSale struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"productId"`
	ProductSignature string    `json:"productSignature"`
	Product          string    `json:"product"`
	Category         string    `json:"category"`
	Register         string    `json:"register"`
	Date             time.Time `json:"date"`
	Seller           string    `json:"seller"`
	Quantity         int       `json:"quantity"`
	Price            float64   `json:"price"` // unit price, derived from total/quantity
	Total            float64   `json:"total"` // signed; negative = refund/withdrawal
	CreatedAt        time.Time `json:"createdAt"`
	Cleaned          bool      `json:"cleaned"`
}

// SaleRecord is the normalized sale-shaped view shared by import,
// rebuild and the stock ledger. Legacy raw-log rows fit it too: they carry
// no product id, which is why stock matching works on name/category.
type SaleRecord struct {
	Row      int       `json:"row,omitempty"` // source row, 0 when not from an import
	Product  string    `json:"product"`
	Category string    `json:"category"`
	Register string    `json:"register"`
	Date     time.Time `json:"date"`
	Seller   string    `json:"seller"`
	Quantity int       `json:"quantity"`
	Price    float64   `json:"price"`
	Total    float64   `json:"total"`
}

// ProductRecord is the product-shaped validated record produced by stock
// sheet imports: a stock baseline observation for one product.
type ProductRecord struct {
	Row         int       `json:"row,omitempty"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Price       float64   `json:"price,omitempty"`
	Stock       int       `json:"stock"`
	MinStock    int       `json:"minStock,omitempty"`
	Description string    `json:"description,omitempty"`
}

// SaleView projects a canonical sale back onto the shared record shape.
func (s *CleanSale) SaleView() SaleRecord {
	return SaleRecord{
		Product:  s.Product,
		Category: s.Category,
		Register: s.Register,
		Date:     s.Date,
		Seller:   s.Seller,
		Quantity: s.Quantity,
		Price:    s.Price,
		Total:    s.Total,
	}
}
