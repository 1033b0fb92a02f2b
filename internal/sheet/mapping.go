package sheet

import (
	"fmt"
	"sort"
	"strings"
)

// Field is one canonical column of the target schema.
type Field string

const (
	FieldProduct     Field = "product"
	FieldCategory    Field = "category"
	FieldRegister    Field = "register"
	FieldDate        Field = "date"
	FieldSeller      Field = "seller"
	FieldQuantity    Field = "quantity"
	FieldPrice       Field = "price"
	FieldAmount      Field = "amount"
	FieldMinStock    Field = "minStock"
	FieldDescription Field = "description"
)

// Schema selects the synonym table and the required field set. Sales rows
// carry register, seller and a signed amount; stock rows do not.
type Schema int

const (
	SchemaSales Schema = iota
	SchemaStock
)

// String implements fmt.Stringer for progress messages.
func (s Schema) String() string {
	if s == SchemaStock {
		return "stock"
	}
	return "sales"
}

// Synonym tables are keyed by normalized header text (see NormalizeHeader).
// French headers come first: the raw files this engine was built for are
// register exports with French column names.
var salesSynonyms = map[string]Field{
	"produit":       FieldProduct,
	"product":       FieldProduct,
	"article":       FieldProduct,
	"designation":   FieldProduct,
	"libelle":       FieldProduct,
	"nom":           FieldProduct,
	"name":          FieldProduct,
	"categorie":     FieldCategory,
	"category":      FieldCategory,
	"famille":       FieldCategory,
	"rayon":         FieldCategory,
	"caisse":        FieldRegister,
	"register":      FieldRegister,
	"terminal":      FieldRegister,
	"pos":           FieldRegister,
	"date":          FieldDate,
	"date vente":    FieldDate,
	"jour":          FieldDate,
	"vendeur":       FieldSeller,
	"vendeuse":      FieldSeller,
	"seller":        FieldSeller,
	"employe":       FieldSeller,
	"qte":           FieldQuantity,
	"quantite":      FieldQuantity,
	"quantity":      FieldQuantity,
	"qty":           FieldQuantity,
	"nombre":        FieldQuantity,
	"montant":       FieldAmount,
	"amount":        FieldAmount,
	"total":         FieldAmount,
	"montant ttc":   FieldAmount,
	"prix":          FieldPrice,
	"price":         FieldPrice,
	"prix unitaire": FieldPrice,
	"pu":            FieldPrice,
	"description":   FieldDescription,
	"commentaire":   FieldDescription,
}

var stockSynonyms = map[string]Field{
	"produit":       FieldProduct,
	"product":       FieldProduct,
	"article":       FieldProduct,
	"designation":   FieldProduct,
	"libelle":       FieldProduct,
	"nom":           FieldProduct,
	"name":          FieldProduct,
	"categorie":     FieldCategory,
	"category":      FieldCategory,
	"famille":       FieldCategory,
	"rayon":         FieldCategory,
	"date":          FieldDate,
	"date stock":    FieldDate,
	"jour":          FieldDate,
	"stock":         FieldQuantity,
	"qte":           FieldQuantity,
	"quantite":      FieldQuantity,
	"quantity":      FieldQuantity,
	"inventaire":    FieldQuantity,
	"prix":          FieldPrice,
	"price":         FieldPrice,
	"prix unitaire": FieldPrice,
	"pu":            FieldPrice,
	"stock mini":    FieldMinStock,
	"stock minimum": FieldMinStock,
	"seuil":         FieldMinStock,
	"seuil alerte":  FieldMinStock,
	"min stock":     FieldMinStock,
	"description":   FieldDescription,
	"commentaire":   FieldDescription,
}

var requiredFields = map[Schema][]Field{
	SchemaSales: {FieldProduct, FieldCategory, FieldRegister, FieldDate, FieldSeller, FieldQuantity, FieldAmount},
	SchemaStock: {FieldProduct, FieldCategory, FieldDate, FieldQuantity},
}

func synonymsFor(schema Schema) map[string]Field {
	if schema == SchemaStock {
		return stockSynonyms
	}
	return salesSynonyms
}

// HeaderSuggestion is one line of the "this header maps to X" table shown
// when a batch is rejected for missing columns.
type HeaderSuggestion struct {
	Header string `json:"header"`
	MapsTo string `json:"mapsTo"`
}

// ColumnMapping is the bidirectional header/field mapping built once from a
// batch's first row. It is stable for the whole batch.
type ColumnMapping struct {
	Schema   Schema
	Fields   map[string]Field  // original header -> canonical field
	Unmapped map[string]string // original header -> title-cased fallback

	byField map[Field]string // first header mapped to each field
}

// MapHeaders resolves every raw header against the schema's synonym table:
// exact lookup on the normalized text first, then substring containment in
// either direction, else a title-cased fallback. Deterministic given the
// same headers; never fails.
func MapHeaders(headers []string, schema Schema) *ColumnMapping {
	m := &ColumnMapping{
		Schema:   schema,
		Fields:   make(map[string]Field),
		Unmapped: make(map[string]string),
		byField:  make(map[Field]string),
	}
	table := synonymsFor(schema)

	for _, header := range headers {
		normalized := NormalizeHeader(header)
		if normalized == "" {
			continue
		}

		field, ok := table[normalized]
		if !ok {
			field, ok = containmentMatch(normalized, table)
		}
		if !ok {
			m.Unmapped[header] = TitleFallback(header)
			continue
		}

		m.Fields[header] = field
		if _, seen := m.byField[field]; !seen {
			m.byField[field] = header
		}
	}

	return m
}

// containmentMatch falls back to substring matching against the synonym
// table, either direction. Longer synonyms win so "prix unitaire" beats
// "prix" when both are contained.
func containmentMatch(normalized string, table map[string]Field) (Field, bool) {
	bestLen := 0
	var best Field
	for synonym, field := range table {
		if strings.Contains(normalized, synonym) || strings.Contains(synonym, normalized) {
			if len(synonym) > bestLen {
				bestLen = len(synonym)
				best = field
			}
		}
	}
	return best, bestLen > 0
}

// HeaderFor returns the raw header resolved to the given canonical field.
func (m *ColumnMapping) HeaderFor(field Field) (string, bool) {
	h, ok := m.byField[field]
	return h, ok
}

// MissingRequired lists the schema-required fields absent from the mapping.
// A non-empty result rejects the whole batch before any row is read.
func (m *ColumnMapping) MissingRequired() []Field {
	var missing []Field
	for _, field := range requiredFields[m.Schema] {
		if _, ok := m.byField[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

// Suggestions renders the per-header resolution table for structural error
// reports, sorted for stable output.
func (m *ColumnMapping) Suggestions() []HeaderSuggestion {
	out := make([]HeaderSuggestion, 0, len(m.Fields)+len(m.Unmapped))
	for header, field := range m.Fields {
		out = append(out, HeaderSuggestion{Header: header, MapsTo: string(field)})
	}
	for header, fallback := range m.Unmapped {
		out = append(out, HeaderSuggestion{Header: header, MapsTo: fmt.Sprintf("%s (unrecognized)", fallback)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Header < out[j].Header })
	return out
}
