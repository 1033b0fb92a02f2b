package model

// Severity grades a validation finding. Critical and error findings block
// the row; warnings never do.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
)

// Blocking reports whether a finding of this severity excludes the row
// from the valid set.
func (s Severity) Blocking() bool {
	return s == SeverityCritical || s == SeverityError
}

// ValidationError is one per-cell finding. Warnings may carry an already
// applied auto-fix.
type ValidationError struct {
	Row        int      `json:"row"`
	Field      string   `json:"field"`
	RawValue   string   `json:"rawValue,omitempty"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion,omitempty"`
	AutoFix    bool     `json:"autoFix,omitempty"`
	FixedValue string   `json:"fixedValue,omitempty"`
}

// ConflictType classifies a duplicate group.
type ConflictType string

const (
	ConflictExact         ConflictType = "exact"
	ConflictSimilar       ConflictType = "similar"
	ConflictPriceConflict ConflictType = "price_conflict"
)

// DuplicateInfo groups the rows sharing one duplicate key. Duplicates are a
// separate classification channel, not errors.
type DuplicateInfo struct {
	Rows           []int        `json:"rows"`
	Product        string       `json:"product"`
	Category       string       `json:"category"`
	ConflictType   ConflictType `json:"conflictType"`
	Recommendation string       `json:"recommendation"`
}

// ImportStatistics summarizes one import pass.
type ImportStatistics struct {
	TotalRows     int `json:"totalRows"`
	ValidRows     int `json:"validRows"`
	ErrorRows     int `json:"errorRows"`
	WarningRows   int `json:"warningRows"`
	DuplicateRows int `json:"duplicateRows"`
}

// ImportReport is the complete outcome of validating one batch. Callers
// always get the full report, never a bare error for row-level findings.
type ImportReport struct {
	IsValid     bool              `json:"isValid"`
	Errors      []ValidationError `json:"errors"`
	Warnings    []ValidationError `json:"warnings"`
	Suggestions []string          `json:"suggestions,omitempty"`
	CleanedData []SaleRecord      `json:"cleanedData"`
	// CleanedProducts is filled instead of CleanedData for stock-sheet
	// imports.
	CleanedProducts []ProductRecord  `json:"cleanedProducts,omitempty"`
	Duplicates      []DuplicateInfo  `json:"duplicates"`
	Statistics      ImportStatistics `json:"statistics"`
}
