package model

// RebuildResult is the outcome of one canonical-store rebuild run.
type RebuildResult struct {
	Success         bool     `json:"success"`
	ProductsCreated int      `json:"productsCreated"`
	SalesProcessed  int      `json:"salesProcessed"`
	Errors          []string `json:"errors"`
	Summary         string   `json:"summary"`
}

// StockResult is the computed stock view for one product. It is recomputed
// on demand and never persisted.
type StockResult struct {
	FinalStock           int          `json:"finalStock"`
	ValidSales           []SaleRecord `json:"validSales"`
	IgnoredSales         []SaleRecord `json:"ignoredSales"`
	HasInconsistentStock bool         `json:"hasInconsistentStock"`
	FutureStockDate      bool         `json:"futureStockDate,omitempty"`
	WarningMessage       string       `json:"warningMessage,omitempty"`
}

// FleetStockSummary aggregates per-product stock results across the catalog.
type FleetStockSummary struct {
	Products          int `json:"products"`
	TotalStock        int `json:"totalStock"`
	OutOfStock        int `json:"outOfStock"`
	LowStock          int `json:"lowStock"`
	InconsistentStock int `json:"inconsistentStock"`
}
