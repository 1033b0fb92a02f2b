package dedupe

import (
	"fmt"
	"strings"

	"recount/internal/model"
)

// SaleKey builds the composite duplicate key for one sale event. Text
// fields are lowercased and trimmed, the date keeps only the day, money is
// rounded to 2 decimals, so casing and sub-cent noise collapse onto one key.
func SaleKey(rec model.SaleRecord) string {
	return strings.Join([]string{
		fold(rec.Product),
		fold(rec.Category),
		fold(rec.Register),
		rec.Date.Format("2006-01-02"),
		fold(rec.Seller),
		fmt.Sprintf("%d", rec.Quantity),
		fmt.Sprintf("%.2f", rec.Price),
		fmt.Sprintf("%.2f", rec.Total),
	}, "|")
}

// ProductKey is the product-dimension duplicate key.
func ProductKey(name, category string) string {
	return fold(name) + "|" + fold(category)
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
