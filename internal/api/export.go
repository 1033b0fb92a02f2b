package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"recount/internal/export"
)

// ExportSalesCSV streams the canonical sales as CSV.
// GET /api/export/sales.csv
func (h *Handler) ExportSalesCSV(c *gin.Context) {
	filename := fmt.Sprintf("ventes_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.exporter.WriteCSV(c.Writer, export.Options{}); err != nil {
		h.log.WithError(err).Error("csv export failed")
		c.Status(http.StatusInternalServerError)
	}
}

// ExportSalesXLSX streams the canonical sales as a styled workbook.
// GET /api/export/sales.xlsx
func (h *Handler) ExportSalesXLSX(c *gin.Context) {
	filename := fmt.Sprintf("ventes_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.exporter.WriteXLSX(c.Writer, export.Options{}); err != nil {
		h.log.WithError(err).Error("xlsx export failed")
		c.Status(http.StatusInternalServerError)
	}
}
