package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"recount/internal/model"
	"recount/internal/sheet"
)

// Import validates an uploaded workbook and, when valid, commits its rows.
// POST /api/import (multipart: file, type=sales|stock)
func (h *Handler) Import(c *gin.Context) {
	h.runImport(c, true)
}

// ValidateImport runs the full validation pipeline without writing.
// POST /api/import/validate
func (h *Handler) ValidateImport(c *gin.Context) {
	h.runImport(c, false)
}

func (h *Handler) runImport(c *gin.Context, commit bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	schema := sheet.SchemaSales
	if c.DefaultPostForm("type", "sales") == "stock" {
		schema = sheet.SchemaStock
	}

	tempPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("recount_import_%d_%s", time.Now().UnixNano(), filepath.Base(fileHeader.Filename)))
	if err := c.SaveUploadedFile(fileHeader, tempPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save upload"})
		return
	}
	defer os.Remove(tempPath)

	report, err := h.importer.ImportFile(tempPath, schema, commit)
	if err != nil {
		h.log.WithError(err).Error("import failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, importResponse{
		Report:    report,
		Committed: commit && report.IsValid,
	})
}

type importResponse struct {
	Report    *model.ImportReport `json:"report"`
	Committed bool                `json:"committed"`
}
