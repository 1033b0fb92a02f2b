package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"recount/internal/model"
	"recount/internal/store"
)

// ListSales pages through the raw sales log with optional filters.
// GET /api/sales?category=X&register=X&seller=X&from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) ListSales(c *gin.Context) {
	opts := store.SaleQueryOptions{
		Limit:  intQuery(c, "limit", 100),
		Offset: intQuery(c, "offset", 0),
	}
	if v := c.Query("category"); v != "" {
		opts.Category = &v
	}
	if v := c.Query("register"); v != "" {
		opts.Register = &v
	}
	if v := c.Query("seller"); v != "" {
		opts.Seller = &v
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return
		}
		opts.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return
		}
		opts.To = &t
	}

	if c.Query("source") == "clean" {
		cleanSales, err := h.store.ListCleanSales(opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		total, err := h.store.CountCleanSales()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		sales := make([]model.SaleRecord, len(cleanSales))
		for i, s := range cleanSales {
			sales[i] = s.SaleView()
		}
		c.JSON(http.StatusOK, gin.H{"sales": sales, "total": total})
		return
	}

	sales, err := h.store.ListRawSales(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	total, err := h.store.CountRawSales()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sales": sales,
		"total": total,
	})
}
