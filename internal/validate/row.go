package validate

import (
	"strings"

	"recount/internal/model"
	"recount/internal/sheet"
)

// RowValidator turns mapped raw rows into typed records, collecting
// findings instead of failing: one bad cell never aborts the batch.
type RowValidator struct {
	Mapping         *sheet.ColumnMapping
	KnownCategories []string
}

// cellFor reads the raw cell behind a canonical field, empty when the
// column is not mapped.
func (v *RowValidator) cellFor(row model.RawRow, field sheet.Field) model.CellValue {
	header, ok := v.Mapping.HeaderFor(field)
	if !ok {
		return model.EmptyCell()
	}
	return row.Cell(header)
}

// textFor reads a trimmed text rendering of the cell behind a field.
func (v *RowValidator) textFor(row model.RawRow, field sheet.Field) string {
	return strings.TrimSpace(v.cellFor(row, field).String())
}

// Sale validates one sale-shaped row. All findings carry the source row
// number; the record is only usable when no blocking finding was collected.
func (v *RowValidator) Sale(row model.RawRow) (model.SaleRecord, []model.ValidationError) {
	var findings []model.ValidationError
	collect := func(fs []model.ValidationError) {
		for i := range fs {
			fs[i].Row = row.Index
		}
		findings = append(findings, fs...)
	}

	name, fs := Name(v.textFor(row, sheet.FieldProduct))
	collect(fs)
	category, fs := Category(v.textFor(row, sheet.FieldCategory), v.KnownCategories)
	collect(fs)
	date, fs := Date(v.cellFor(row, sheet.FieldDate))
	collect(fs)
	quantity, fs := Quantity(v.cellFor(row, sheet.FieldQuantity), ContextSale)
	collect(fs)
	total, fs := Amount(v.cellFor(row, sheet.FieldAmount))
	collect(fs)

	register := v.textFor(row, sheet.FieldRegister)
	if register == "" {
		collect([]model.ValidationError{{
			Field:    string(sheet.FieldRegister),
			Message:  "register is required",
			Severity: model.SeverityCritical,
		}})
	}
	seller := v.textFor(row, sheet.FieldSeller)
	if seller == "" {
		collect([]model.ValidationError{{
			Field:    string(sheet.FieldSeller),
			Message:  "seller is required",
			Severity: model.SeverityCritical,
		}})
	}

	record := model.SaleRecord{
		Row:      row.Index,
		Product:  name,
		Category: category,
		Register: register,
		Date:     date,
		Seller:   seller,
		Quantity: quantity,
		Price:    UnitPrice(total, quantity),
		Total:    total,
	}
	return record, findings
}

// Product validates one product/stock-shaped row.
func (v *RowValidator) Product(row model.RawRow) (model.ProductRecord, []model.ValidationError) {
	var findings []model.ValidationError
	collect := func(fs []model.ValidationError) {
		for i := range fs {
			fs[i].Row = row.Index
		}
		findings = append(findings, fs...)
	}

	name, fs := Name(v.textFor(row, sheet.FieldProduct))
	collect(fs)
	category, fs := Category(v.textFor(row, sheet.FieldCategory), v.KnownCategories)
	collect(fs)
	date, fs := Date(v.cellFor(row, sheet.FieldDate))
	collect(fs)
	stock, fs := Quantity(v.cellFor(row, sheet.FieldQuantity), ContextProduct)
	collect(fs)

	record := model.ProductRecord{
		Row:      row.Index,
		Name:     name,
		Category: category,
		Date:     date,
		Stock:    stock,
	}

	// Optional columns: validated only when mapped and non-empty.
	if cell := v.cellFor(row, sheet.FieldPrice); !cell.IsEmpty() {
		price, fs := Price(cell)
		collect(fs)
		record.Price = price
	}
	if cell := v.cellFor(row, sheet.FieldMinStock); !cell.IsEmpty() {
		minStock, fs := Quantity(cell, ContextProduct)
		collect(fs)
		record.MinStock = minStock
	}
	record.Description = v.textFor(row, sheet.FieldDescription)

	return record, findings
}
