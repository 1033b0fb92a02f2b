package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"recount/internal/model"
	"recount/internal/store"
)

// ListProducts returns the canonical catalog, optionally filtered by
// category.
// GET /api/products?category=X&limit=N&offset=N
func (h *Handler) ListProducts(c *gin.Context) {
	opts := store.ProductQueryOptions{
		Limit:  intQuery(c, "limit", 0),
		Offset: intQuery(c, "offset", 0),
	}
	if category := c.Query("category"); category != "" {
		opts.Category = &category
	}

	products, err := h.store.ListProducts(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	total, err := h.store.CountProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
	})
}

// GetProductStock computes the current stock of one product from its
// initial baseline and the raw sales log.
// GET /api/products/:id/stock
func (h *Handler) GetProductStock(c *gin.Context) {
	product, err := h.store.GetProductByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sales, err := h.store.ListRawSales(store.SaleQueryOptions{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := h.calc.Compute(product, sales, time.Now().UTC())
	c.JSON(http.StatusOK, productStockResponse{
		Product: product,
		Stock:   result,
	})
}

type productStockResponse struct {
	Product *model.CleanProduct `json:"product"`
	Stock   model.StockResult   `json:"stock"`
}

// GetStockSummary aggregates stock health over the whole catalog.
// GET /api/stock/summary
func (h *Handler) GetStockSummary(c *gin.Context) {
	products, err := h.store.ListProducts(store.ProductQueryOptions{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sales, err := h.store.ListRawSales(store.SaleQueryOptions{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.calc.Fleet(products, sales, time.Now().UTC()))
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
