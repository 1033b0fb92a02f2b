package model

import (
	"strconv"
	"strings"
)

// CellKind discriminates the raw cell variant.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// CellValue is one untyped spreadsheet cell: text, number or empty.
// Spreadsheet adapters must preserve numeric cells as numbers so Excel
// serial dates survive until date validation.
type CellValue struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell wraps a string cell.
func TextCell(s string) CellValue {
	return CellValue{Kind: CellText, Text: s}
}

// NumberCell wraps a numeric cell.
func NumberCell(f float64) CellValue {
	return CellValue{Kind: CellNumber, Number: f}
}

// EmptyCell is the absent-value cell.
func EmptyCell() CellValue {
	return CellValue{Kind: CellEmpty}
}

// IsEmpty reports whether the cell carries no usable value.
func (v CellValue) IsEmpty() bool {
	switch v.Kind {
	case CellEmpty:
		return true
	case CellText:
		return strings.TrimSpace(v.Text) == ""
	}
	return false
}

// String renders the cell for error reporting and key building.
func (v CellValue) String() string {
	switch v.Kind {
	case CellText:
		return v.Text
	case CellNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return ""
}

// RawRow is one source row keyed by its original, uncontrolled headers.
// Index is the 1-based row number in the source file, kept for provenance.
type RawRow struct {
	Index int                  `json:"index"`
	Cells map[string]CellValue `json:"-"`
}

// Cell returns the value under the given original header.
func (r RawRow) Cell(header string) CellValue {
	if v, ok := r.Cells[header]; ok {
		return v
	}
	return EmptyCell()
}
