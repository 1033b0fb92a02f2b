package validate

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"

	"recount/internal/model"
	"recount/internal/sheet"
)

// Context distinguishes sale rows from product/stock rows; quantity is
// required for sales and defaults to zero for products.
type Context int

const (
	ContextSale Context = iota
	ContextProduct
)

// Bounds and thresholds applied by the field validators.
const (
	NameMinLen = 2
	NameMaxLen = 100

	CategoryMinLen = 2
	CategoryMaxLen = 50

	PriceMin          = 0.01
	PriceMax          = 100000
	PriceWarnAbove    = 10000
	QuantityMax       = 999999
	QuantityWarnAbove = 1000

	categorySuggestDistance = 2
)

var (
	forbiddenRunesRE = regexp.MustCompile(`[<>{}\[\]\\]`)
	innerSpaceRE     = regexp.MustCompile(`\s+`)
	currencyRE       = regexp.MustCompile(`[€$£]|(?i)\b(eur|usd|chf)\b`)
)

// Blocking reports whether any finding excludes the row from the valid set.
func Blocking(findings []model.ValidationError) bool {
	for _, f := range findings {
		if f.Severity.Blocking() {
			return true
		}
	}
	return false
}

// Name cleans and validates a product name. Forbidden characters and
// redundant whitespace are auto-fixed with a warning; length violations are
// hard errors.
func Name(raw string) (string, []model.ValidationError) {
	var findings []model.ValidationError

	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "", []model.ValidationError{{
			Field:    string(sheet.FieldProduct),
			RawValue: raw,
			Message:  "product name is required",
			Severity: model.SeverityCritical,
		}}
	}

	if forbiddenRunesRE.MatchString(cleaned) {
		fixed := forbiddenRunesRE.ReplaceAllString(cleaned, "")
		findings = append(findings, model.ValidationError{
			Field:      string(sheet.FieldProduct),
			RawValue:   raw,
			Message:    "forbidden characters removed from product name",
			Severity:   model.SeverityWarning,
			AutoFix:    true,
			FixedValue: fixed,
		})
		cleaned = fixed
	}

	if collapsed := innerSpaceRE.ReplaceAllString(cleaned, " "); collapsed != cleaned {
		findings = append(findings, model.ValidationError{
			Field:      string(sheet.FieldProduct),
			RawValue:   raw,
			Message:    "redundant whitespace collapsed in product name",
			Severity:   model.SeverityWarning,
			AutoFix:    true,
			FixedValue: collapsed,
		})
		cleaned = collapsed
	}
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) < NameMinLen || len(cleaned) > NameMaxLen {
		findings = append(findings, model.ValidationError{
			Field:    string(sheet.FieldProduct),
			RawValue: raw,
			Message:  fmt.Sprintf("product name must be between %d and %d characters", NameMinLen, NameMaxLen),
			Severity: model.SeverityError,
		})
	}

	return cleaned, findings
}

// Category uppercases and validates a category, and suggests a known
// canonical category when the cleaned value is within Levenshtein distance 2
// of one (or is a substring match). Suggestions never auto-apply.
func Category(raw string, known []string) (string, []model.ValidationError) {
	var findings []model.ValidationError

	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "", []model.ValidationError{{
			Field:    string(sheet.FieldCategory),
			RawValue: raw,
			Message:  "category is required",
			Severity: model.SeverityCritical,
		}}
	}

	cleaned = strings.ToUpper(innerSpaceRE.ReplaceAllString(cleaned, " "))

	if len(cleaned) < CategoryMinLen || len(cleaned) > CategoryMaxLen {
		findings = append(findings, model.ValidationError{
			Field:    string(sheet.FieldCategory),
			RawValue: raw,
			Message:  fmt.Sprintf("category must be between %d and %d characters", CategoryMinLen, CategoryMaxLen),
			Severity: model.SeverityError,
		})
		return cleaned, findings
	}

	if suggestion, ok := suggestCategory(cleaned, known); ok {
		findings = append(findings, model.ValidationError{
			Field:      string(sheet.FieldCategory),
			RawValue:   raw,
			Message:    fmt.Sprintf("category %q is close to known category %q", cleaned, suggestion),
			Severity:   model.SeverityWarning,
			Suggestion: suggestion,
		})
	}

	return cleaned, findings
}

// suggestCategory finds the closest known category, if any is close enough
// to be worth flagging. Exact matches need no suggestion.
func suggestCategory(cleaned string, known []string) (string, bool) {
	best := ""
	bestDistance := categorySuggestDistance + 1
	for _, candidate := range known {
		candidate = strings.ToUpper(strings.TrimSpace(candidate))
		if candidate == "" {
			continue
		}
		if candidate == cleaned {
			return "", false
		}
		if strings.Contains(candidate, cleaned) || strings.Contains(cleaned, candidate) {
			return candidate, true
		}
		if d := levenshtein.ComputeDistance(cleaned, candidate); d < bestDistance {
			bestDistance = d
			best = candidate
		}
	}
	return best, best != ""
}

// Price validates a unit price: currency symbols stripped, decimal comma
// normalized, bounds [0.01, 100000], rounded to 2 decimals.
func Price(cell model.CellValue) (float64, []model.ValidationError) {
	return money(cell, sheet.FieldPrice, false)
}

// Amount validates a sale total. The cleanup matches Price but the sign is
// preserved: negative totals are refunds/withdrawals, never clamped.
func Amount(cell model.CellValue) (float64, []model.ValidationError) {
	return money(cell, sheet.FieldAmount, true)
}

func money(cell model.CellValue, field sheet.Field, signed bool) (float64, []model.ValidationError) {
	var findings []model.ValidationError

	if cell.IsEmpty() {
		return 0, []model.ValidationError{{
			Field:    string(field),
			Message:  fmt.Sprintf("%s is required", field),
			Severity: model.SeverityCritical,
		}}
	}

	var parsed decimal.Decimal
	switch cell.Kind {
	case model.CellNumber:
		parsed = decimal.NewFromFloat(cell.Number)
	default:
		raw := currencyRE.ReplaceAllString(cell.Text, "")
		raw = strings.ReplaceAll(raw, " ", "")
		raw = strings.ReplaceAll(raw, " ", "")
		raw = strings.ReplaceAll(raw, ",", ".")
		var err error
		parsed, err = decimal.NewFromString(raw)
		if err != nil {
			return 0, []model.ValidationError{{
				Field:    string(field),
				RawValue: cell.String(),
				Message:  fmt.Sprintf("%s %q is not a number", field, cell.Text),
				Severity: model.SeverityError,
			}}
		}
	}

	rounded := parsed.Round(2)
	if !rounded.Equal(parsed) {
		findings = append(findings, model.ValidationError{
			Field:      string(field),
			RawValue:   cell.String(),
			Message:    fmt.Sprintf("%s rounded to 2 decimals", field),
			Severity:   model.SeverityWarning,
			AutoFix:    true,
			FixedValue: rounded.String(),
		})
	}
	value := rounded.InexactFloat64()

	if !signed {
		if value < PriceMin || value > PriceMax {
			findings = append(findings, model.ValidationError{
				Field:    string(field),
				RawValue: cell.String(),
				Message:  fmt.Sprintf("price must be between %.2f and %d", PriceMin, PriceMax),
				Severity: model.SeverityError,
			})
			return value, findings
		}
		if value > PriceWarnAbove {
			findings = append(findings, model.ValidationError{
				Field:    string(field),
				RawValue: cell.String(),
				Message:  fmt.Sprintf("price above %d, double-check the source row", PriceWarnAbove),
				Severity: model.SeverityWarning,
			})
		}
	}

	return value, findings
}

// Quantity validates a quantity or stock level. Sale rows require a
// positive integer; product rows default an absent value to zero with a
// warning.
func Quantity(cell model.CellValue, ctx Context) (int, []model.ValidationError) {
	var findings []model.ValidationError

	if cell.IsEmpty() {
		if ctx == ContextProduct {
			return 0, []model.ValidationError{{
				Field:      string(sheet.FieldQuantity),
				Message:    "stock not set, defaulting to 0",
				Severity:   model.SeverityWarning,
				AutoFix:    true,
				FixedValue: "0",
			}}
		}
		return 0, []model.ValidationError{{
			Field:    string(sheet.FieldQuantity),
			Message:  "quantity is required",
			Severity: model.SeverityCritical,
		}}
	}

	var value float64
	switch cell.Kind {
	case model.CellNumber:
		value = cell.Number
	default:
		parsed, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(cell.Text, ",", ".")))
		if err != nil {
			return 0, []model.ValidationError{{
				Field:    string(sheet.FieldQuantity),
				RawValue: cell.String(),
				Message:  fmt.Sprintf("quantity %q is not a number", cell.Text),
				Severity: model.SeverityError,
			}}
		}
		value = parsed.InexactFloat64()
	}

	if value != math.Trunc(value) {
		return 0, []model.ValidationError{{
			Field:    string(sheet.FieldQuantity),
			RawValue: cell.String(),
			Message:  "quantity must be a whole number",
			Severity: model.SeverityError,
		}}
	}
	qty := int(value)

	if qty < 0 || (ctx == ContextSale && qty == 0) {
		return qty, []model.ValidationError{{
			Field:    string(sheet.FieldQuantity),
			RawValue: cell.String(),
			Message:  "quantity must be a positive integer",
			Severity: model.SeverityError,
		}}
	}
	if qty > QuantityMax {
		return qty, []model.ValidationError{{
			Field:    string(sheet.FieldQuantity),
			RawValue: cell.String(),
			Message:  fmt.Sprintf("quantity above %d is rejected", QuantityMax),
			Severity: model.SeverityError,
		}}
	}
	if qty > QuantityWarnAbove {
		findings = append(findings, model.ValidationError{
			Field:    string(sheet.FieldQuantity),
			RawValue: cell.String(),
			Message:  fmt.Sprintf("quantity above %d, double-check the source row", QuantityWarnAbove),
			Severity: model.SeverityWarning,
		})
	}

	return qty, findings
}

// UnitPrice derives the unit price from a signed total: round(total/qty, 2)
// when the quantity is positive, else the total itself.
func UnitPrice(total float64, quantity int) float64 {
	if quantity > 0 {
		return decimal.NewFromFloat(total).
			Div(decimal.NewFromInt(int64(quantity))).
			Round(2).
			InexactFloat64()
	}
	return total
}
