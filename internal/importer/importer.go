package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"recount/internal/catalog"
	"recount/internal/dedupe"
	"recount/internal/model"
	"recount/internal/sheet"
	"recount/internal/stock"
	"recount/internal/store"
	"recount/internal/validate"
)

// Importer runs the import pipeline: header mapping, field validation,
// duplicate detection, and optionally persistence of the accepted rows.
type Importer struct {
	store           *store.Store
	calc            *stock.Calculator
	batchSize       int
	knownCategories []string
	log             *logrus.Logger
}

// New builds an importer. calc may be nil when no stock cache needs
// invalidation (validation-only use).
func New(st *store.Store, calc *stock.Calculator, batchSize int, knownCategories []string, log *logrus.Logger) *Importer {
	if batchSize <= 0 {
		batchSize = store.MaxBatchSize
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Importer{
		store:           st,
		calc:            calc,
		batchSize:       batchSize,
		knownCategories: knownCategories,
		log:             log,
	}
}

// Validate runs the pipeline over raw rows without writing anything.
// Structural failures (missing required columns, empty input) short-circuit
// before any row is read; row-level findings are collected, never thrown.
func (im *Importer) Validate(headers []string, rows []model.RawRow, schema sheet.Schema) (*model.ImportReport, error) {
	report := &model.ImportReport{
		Errors:      []model.ValidationError{},
		Warnings:    []model.ValidationError{},
		CleanedData: []model.SaleRecord{},
		Duplicates:  []model.DuplicateInfo{},
	}

	mapping := sheet.MapHeaders(headers, schema)
	if missing := mapping.MissingRequired(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		report.Errors = append(report.Errors, model.ValidationError{
			Field:    strings.Join(names, ", "),
			Message:  fmt.Sprintf("missing required column(s): %s", strings.Join(names, ", ")),
			Severity: model.SeverityCritical,
		})
		for _, s := range mapping.Suggestions() {
			report.Suggestions = append(report.Suggestions,
				fmt.Sprintf("%q maps to %s", s.Header, s.MapsTo))
		}
		return report, nil
	}

	if len(rows) == 0 {
		report.Errors = append(report.Errors, model.ValidationError{
			Message:  "the file contains no data rows",
			Severity: model.SeverityCritical,
		})
		return report, nil
	}

	validator := &validate.RowValidator{
		Mapping:         mapping,
		KnownCategories: im.knownCategories,
	}

	switch schema {
	case sheet.SchemaStock:
		im.validateProducts(report, validator, rows)
	default:
		if err := im.validateSales(report, validator, rows); err != nil {
			return nil, err
		}
	}

	report.Statistics.TotalRows = len(rows)
	report.Statistics.DuplicateRows = duplicateRowCount(report.Duplicates)
	report.IsValid = len(report.Errors) == 0
	return report, nil
}

// validateSales checks sale-shaped rows and classifies duplicates against
// the persisted corpus first, then within the batch.
func (im *Importer) validateSales(report *model.ImportReport, validator *validate.RowValidator, rows []model.RawRow) error {
	persisted, err := im.store.ListRawSales(store.SaleQueryOptions{})
	if err != nil {
		return fmt.Errorf("failed to load persisted sales: %w", err)
	}
	detector := dedupe.NewDetector(persisted)

	warned := make(map[int]struct{})
	for _, row := range rows {
		record, findings := validator.Sale(row)
		blocked := false
		for _, f := range findings {
			if f.Severity.Blocking() {
				report.Errors = append(report.Errors, f)
				blocked = true
			} else {
				report.Warnings = append(report.Warnings, f)
				warned[f.Row] = struct{}{}
			}
		}
		if blocked {
			report.Statistics.ErrorRows++
			continue
		}

		kind, firstRow := detector.Classify(record)
		switch kind {
		case dedupe.OfExisting:
			report.Duplicates = append(report.Duplicates, model.DuplicateInfo{
				Rows:           []int{record.Row},
				Product:        record.Product,
				Category:       record.Category,
				ConflictType:   model.ConflictExact,
				Recommendation: "identical sale already recorded; remove the row from the file",
			})
		case dedupe.WithinBatch:
			report.Duplicates = append(report.Duplicates, model.DuplicateInfo{
				Rows:           []int{firstRow, record.Row},
				Product:        record.Product,
				Category:       record.Category,
				ConflictType:   model.ConflictExact,
				Recommendation: "duplicate of an earlier row in the same file; keep only one",
			})
		default:
			report.CleanedData = append(report.CleanedData, record)
			report.Statistics.ValidRows++
		}
	}
	report.Statistics.WarningRows = len(warned)
	return nil
}

// validateProducts checks product/stock-shaped rows; product duplicates
// come from the name|category key, with price conflicts flagged for manual
// review rather than merged.
func (im *Importer) validateProducts(report *model.ImportReport, validator *validate.RowValidator, rows []model.RawRow) {
	warned := make(map[int]struct{})
	for _, row := range rows {
		record, findings := validator.Product(row)
		blocked := false
		for _, f := range findings {
			if f.Severity.Blocking() {
				report.Errors = append(report.Errors, f)
				blocked = true
			} else {
				report.Warnings = append(report.Warnings, f)
				warned[f.Row] = struct{}{}
			}
		}
		if blocked {
			report.Statistics.ErrorRows++
			continue
		}
		report.CleanedProducts = append(report.CleanedProducts, record)
		report.Statistics.ValidRows++
	}
	report.Statistics.WarningRows = len(warned)
	report.Duplicates = append(report.Duplicates, dedupe.FindProductDuplicates(report.CleanedProducts)...)
}

// Commit persists a valid report: sale rows land in the raw log, stock
// rows become or refresh canonical products. The stock cache is
// invalidated on any write.
func (im *Importer) Commit(report *model.ImportReport) error {
	if !report.IsValid {
		return fmt.Errorf("refusing to commit an invalid import")
	}
	for _, info := range report.Duplicates {
		if info.ConflictType == model.ConflictPriceConflict {
			return fmt.Errorf("product %q has conflicting prices; resolve before importing", info.Product)
		}
	}
	duplicated := duplicateRowSet(report.Duplicates)

	written := 0
	if len(report.CleanedData) > 0 {
		var pending []model.SaleRecord
		for _, rec := range report.CleanedData {
			if _, ok := duplicated[rec.Row]; ok {
				continue
			}
			pending = append(pending, rec)
		}

		for offset := 0; offset < len(pending); offset += im.batchSize {
			end := offset + im.batchSize
			if end > len(pending) {
				end = len(pending)
			}
			batch := &store.Batch{RawSales: pending[offset:end]}
			if err := im.store.ApplyBatch(batch); err != nil {
				return fmt.Errorf("failed to commit sales batch at %d: %w", offset, err)
			}
			written += batch.Len()
		}
	}

	if len(report.CleanedProducts) > 0 {
		var pending []model.ProductRecord
		for _, rec := range report.CleanedProducts {
			if _, ok := duplicated[rec.Row]; ok {
				continue
			}
			pending = append(pending, rec)
		}

		resolver := catalog.NewResolver(im.store)
		for offset := 0; offset < len(pending); offset += im.batchSize {
			end := offset + im.batchSize
			if end > len(pending) {
				end = len(pending)
			}
			batch := &store.Batch{}
			for _, rec := range pending[offset:end] {
				if _, err := resolver.ResolveBaseline(rec, batch); err != nil {
					return fmt.Errorf("failed to resolve product %q: %w", rec.Name, err)
				}
			}
			if err := im.store.ApplyBatch(batch); err != nil {
				return fmt.Errorf("failed to commit products batch at %d: %w", offset, err)
			}
			written += batch.Len()
		}
	}

	if written > 0 {
		if im.calc != nil {
			im.calc.Invalidate()
		}
		if err := im.store.SetConfigValue("last_import", time.Now().UTC().Format(time.RFC3339)); err != nil {
			im.log.WithError(err).Warn("failed to record import time")
		}
	}

	im.log.WithFields(logrus.Fields{
		"sales":    len(report.CleanedData),
		"products": len(report.CleanedProducts),
	}).Info("import committed")
	return nil
}

// ImportFile opens a workbook from disk, validates its first sheet and
// optionally commits the result.
func (im *Importer) ImportFile(path string, schema sheet.Schema, commit bool) (*model.ImportReport, error) {
	reader, err := sheet.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	headers, rows, err := reader.FirstSheet()
	if err != nil {
		return nil, err
	}

	report, err := im.Validate(headers, rows, schema)
	if err != nil {
		return nil, err
	}
	if commit && report.IsValid {
		if err := im.Commit(report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func duplicateRowCount(infos []model.DuplicateInfo) int {
	return len(duplicateRowSet(infos))
}

// duplicateRowSet flattens duplicate groups to the rows that must not be
// written. The first row of a within-batch pair is the accepted one.
func duplicateRowSet(infos []model.DuplicateInfo) map[int]struct{} {
	rows := make(map[int]struct{})
	for _, info := range infos {
		offending := info.Rows
		if len(offending) > 1 {
			offending = offending[1:]
		}
		for _, row := range offending {
			rows[row] = struct{}{}
		}
	}
	return rows
}
