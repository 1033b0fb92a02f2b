package dedupe

import (
	"math"
	"sort"

	"recount/internal/model"
)

// Kind classifies where a duplicate was found.
type Kind int

const (
	// NotDuplicate means the record is new.
	NotDuplicate Kind = iota
	// OfExisting means an already-persisted sale carries the same key.
	OfExisting
	// WithinBatch means an earlier record of the same import carries it.
	WithinBatch
)

// Detector classifies incoming sale records against the persisted corpus
// first, then against records accepted earlier in the same batch. First
// match wins; a record is flagged at most once.
type Detector struct {
	existing map[string]struct{}
	batch    map[string]int // key -> first accepting row
}

// NewDetector prebuilds the key set of already-persisted sales.
func NewDetector(persisted []model.SaleRecord) *Detector {
	d := &Detector{
		existing: make(map[string]struct{}, len(persisted)),
		batch:    make(map[string]int),
	}
	for _, rec := range persisted {
		d.existing[SaleKey(rec)] = struct{}{}
	}
	return d
}

// Classify checks one record. Non-duplicates are remembered as part of the
// current batch.
func (d *Detector) Classify(rec model.SaleRecord) (Kind, int) {
	key := SaleKey(rec)
	if _, ok := d.existing[key]; ok {
		return OfExisting, 0
	}
	if row, ok := d.batch[key]; ok {
		return WithinBatch, row
	}
	d.batch[key] = rec.Row
	return NotDuplicate, 0
}

// FindProductDuplicates groups product-shaped rows sharing a name|category
// key. Rows agreeing on price are exact duplicates; rows disagreeing are a
// price conflict that must be resolved manually, never auto-merged.
func FindProductDuplicates(rows []model.ProductRecord) []model.DuplicateInfo {
	type group struct {
		first model.ProductRecord
		rows  []int
		price float64
		mixed bool
	}

	groups := make(map[string]*group)
	var order []string
	for _, rec := range rows {
		key := ProductKey(rec.Name, rec.Category)
		g, ok := groups[key]
		if !ok {
			groups[key] = &group{first: rec, rows: []int{rec.Row}, price: rec.Price}
			order = append(order, key)
			continue
		}
		g.rows = append(g.rows, rec.Row)
		if math.Abs(g.price-rec.Price) >= 0.005 {
			g.mixed = true
		}
	}

	var out []model.DuplicateInfo
	for _, key := range order {
		g := groups[key]
		if len(g.rows) < 2 {
			continue
		}
		sort.Ints(g.rows)
		info := model.DuplicateInfo{
			Rows:     g.rows,
			Product:  g.first.Name,
			Category: g.first.Category,
		}
		if g.mixed {
			info.ConflictType = model.ConflictPriceConflict
			info.Recommendation = "same product with different prices; resolve manually before importing"
		} else {
			info.ConflictType = model.ConflictExact
			info.Recommendation = "identical rows; remove the duplicates"
		}
		out = append(out, info)
	}
	return out
}
