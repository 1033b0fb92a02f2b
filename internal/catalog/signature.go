package catalog

import (
	"math"
	"strings"
)

// Signature derives the stable product identity key. It is invariant under
// leading/trailing whitespace and casing in either field.
func Signature(name, category string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(category))
}

// DefaultMinStock is the low-stock threshold assigned to new products:
// 20% of the known stock, never below 5.
func DefaultMinStock(stock int) int {
	if stock <= 0 {
		return 5
	}
	minStock := int(math.Ceil(0.2 * float64(stock)))
	if minStock < 5 {
		return 5
	}
	return minStock
}
