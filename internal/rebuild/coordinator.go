package rebuild

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"recount/internal/catalog"
	"recount/internal/model"
	"recount/internal/store"
)

// DefaultBatchSize respects the backing store's atomic-write limits.
const DefaultBatchSize = 500

// Options tunes one rebuild run.
type Options struct {
	// Source overrides the sale corpus; when nil the raw sales log is read.
	Source []model.SaleRecord
	// ClearExisting empties the canonical collections first, so a re-run
	// converges to the same end state. Leaving existing data in place keeps
	// product dedup by signature but stacks sale rows run after run.
	ClearExisting bool
}

// ProgressEvent is one step of a streamed rebuild.
type ProgressEvent struct {
	Type      string      `json:"type"` // start/info/batch_done/done/error
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Coordinator drives the end-to-end rebuild of the canonical collections
// from the raw sales corpus. Runs must not execute concurrently against the
// same store; the coordinator provides no locking of its own.
type Coordinator struct {
	store     *store.Store
	batchSize int
	log       *logrus.Logger
}

// NewCoordinator creates a rebuild coordinator. batchSize falls back to
// DefaultBatchSize when zero or negative.
func NewCoordinator(st *store.Store, batchSize int, log *logrus.Logger) *Coordinator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Coordinator{store: st, batchSize: batchSize, log: log}
}

// Rebuild runs synchronously and returns the run result. Row-level failures
// are collected; only store-level failures abort the run.
func (c *Coordinator) Rebuild(opts Options) *model.RebuildResult {
	return c.run(opts, nil)
}

// RebuildStream runs in the background and reports progress on the
// returned channel; the final done event carries the RebuildResult.
func (c *Coordinator) RebuildStream(opts Options) <-chan ProgressEvent {
	progress := make(chan ProgressEvent, 100)
	go func() {
		defer close(progress)
		result := c.run(opts, progress)
		eventType := "done"
		if !result.Success {
			eventType = "error"
		}
		c.send(progress, ProgressEvent{
			Type:      eventType,
			Message:   result.Summary,
			Data:      result,
			Timestamp: time.Now(),
		})
	}()
	return progress
}

func (c *Coordinator) run(opts Options, progress chan ProgressEvent) *model.RebuildResult {
	result := &model.RebuildResult{Errors: []string{}}
	start := time.Now()

	source := opts.Source
	if source == nil {
		var err error
		source, err = c.store.ListRawSales(store.SaleQueryOptions{})
		if err != nil {
			result.Summary = "rebuild aborted: could not read the raw sales log"
			result.Errors = append(result.Errors, fmt.Sprintf("read raw sales: %v", err))
			return result
		}
	}

	// An empty rebuild is never silently successful.
	if len(source) == 0 {
		result.Summary = "rebuild aborted: no sales data"
		result.Errors = append(result.Errors, "no sales data to rebuild from")
		return result
	}

	c.send(progress, ProgressEvent{
		Type:      "start",
		Message:   fmt.Sprintf("rebuilding canonical data from %d sales", len(source)),
		Timestamp: time.Now(),
	})

	if opts.ClearExisting {
		if err := c.store.DeleteCleanData(); err != nil {
			result.Summary = "rebuild aborted: could not clear canonical collections"
			result.Errors = append(result.Errors, fmt.Sprintf("clear canonical data: %v", err))
			return result
		}
	}

	resolver := catalog.NewResolver(c.store)

	// Batches run strictly in order: products created in batch N must be
	// committed before batch N+1 resolves signatures against the store.
	for offset := 0; offset < len(source); offset += c.batchSize {
		end := offset + c.batchSize
		if end > len(source) {
			end = len(source)
		}

		batch := &store.Batch{}
		for _, rec := range source[offset:end] {
			product, err := resolver.Resolve(rec, batch)
			if err != nil {
				// One bad record never aborts the batch.
				result.Errors = append(result.Errors,
					fmt.Sprintf("row %d (%s): %v", rec.Row, rec.Product, err))
				continue
			}

			batch.Sales = append(batch.Sales, &model.CleanSale{
				ProductID:        product.ID,
				ProductSignature: product.Signature,
				Product:          rec.Product,
				Category:         rec.Category,
				Register:         rec.Register,
				Date:             rec.Date,
				Seller:           rec.Seller,
				Quantity:         rec.Quantity,
				Price:            rec.Price,
				Total:            rec.Total,
				Cleaned:          true,
			})
			result.SalesProcessed++
		}

		// A failed commit is fatal: no partial batch is assumed possible.
		if err := c.store.ApplyBatch(batch); err != nil {
			c.log.WithFields(logrus.Fields{
				"offset": offset,
				"size":   batch.Len(),
			}).WithError(err).Error("rebuild batch commit failed")
			result.Summary = fmt.Sprintf("rebuild aborted at record %d: batch commit failed", offset)
			result.Errors = append(result.Errors, fmt.Sprintf("commit batch at %d: %v", offset, err))
			return result
		}

		c.send(progress, ProgressEvent{
			Type:      "batch_done",
			Message:   fmt.Sprintf("committed records %d-%d", offset+1, end),
			Timestamp: time.Now(),
		})
	}

	result.Success = true
	result.ProductsCreated = resolver.Created()
	result.Summary = fmt.Sprintf(
		"rebuilt clean_products and clean_sales: %d sales processed, %d products created, %d errors in %s",
		result.SalesProcessed, result.ProductsCreated, len(result.Errors),
		time.Since(start).Round(time.Millisecond))

	c.log.WithFields(logrus.Fields{
		"sales":    result.SalesProcessed,
		"products": result.ProductsCreated,
		"errors":   len(result.Errors),
	}).Info("rebuild finished")

	return result
}

// send delivers without blocking; a full channel drops the event.
func (c *Coordinator) send(ch chan ProgressEvent, event ProgressEvent) {
	if ch == nil {
		return
	}
	select {
	case ch <- event:
	default:
	}
}
