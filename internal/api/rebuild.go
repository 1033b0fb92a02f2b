package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"recount/internal/rebuild"
)

// Rebuild regenerates the clean tables from the raw sales log, streaming
// progress as SSE events.
// POST /api/rebuild?clear=true
func (h *Handler) Rebuild(c *gin.Context) {
	clear := c.DefaultQuery("clear", "true") == "true"

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	events := h.coordinator.RebuildStream(rebuild.Options{ClearExisting: clear})
	for event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		flusher.Flush()
	}

	// The clean tables changed underneath the stock cache.
	h.calc.Invalidate()
}
