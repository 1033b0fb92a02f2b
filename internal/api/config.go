package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recount/internal/config"
	"recount/internal/importer"
)

// ConfigPatch carries the editable subset of the configuration. Pointer
// fields distinguish "not sent" from zero values.
type ConfigPatch struct {
	BatchSize       *int      `json:"batchSize"`
	KnownCategories *[]string `json:"knownCategories"`
}

// GetConfig returns the import tuning configuration.
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"batchSize":       h.cfg.Import.BatchSize,
		"knownCategories": h.cfg.Import.KnownCategories,
	})
}

// UpdateConfig applies a partial configuration update and persists it.
// PATCH /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var patch ConfigPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if patch.BatchSize != nil {
		if *patch.BatchSize <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "batchSize must be positive"})
			return
		}
		h.cfg.Import.BatchSize = *patch.BatchSize
	}
	if patch.KnownCategories != nil {
		h.cfg.Import.KnownCategories = *patch.KnownCategories
	}

	// The importer captured the old tuning at construction time.
	h.importer = importer.New(h.store, h.calc, h.cfg.Import.BatchSize, h.cfg.Import.KnownCategories, h.log)

	if err := config.SaveConfig(h.cfg); err != nil {
		h.log.WithError(err).Error("failed to persist config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist config"})
		return
	}

	h.GetConfig(c)
}
