package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse summarizes the state of the data set.
type StatusResponse struct {
	Initialized bool   `json:"initialized"`
	RawSales    int    `json:"rawSales"`
	CleanSales  int    `json:"cleanSales"`
	Products    int    `json:"products"`
	LastImport  string `json:"lastImport,omitempty"`
}

// GetStatus reports whether any data has been imported yet.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	rawCount, err := h.store.CountRawSales()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	cleanCount, err := h.store.CountCleanSales()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	productCount, err := h.store.CountProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	lastImport, err := h.store.GetConfigValue("last_import")
	if err != nil {
		lastImport = ""
	}

	c.JSON(http.StatusOK, StatusResponse{
		Initialized: rawCount > 0,
		RawSales:    rawCount,
		CleanSales:  cleanCount,
		Products:    productCount,
		LastImport:  lastImport,
	})
}
