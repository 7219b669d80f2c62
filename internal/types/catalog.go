package types

import "time"

// FileType represents supported upload file types
type FileType string

const (
	FileTypeXLSX FileType = "xlsx"
	FileTypeCSV  FileType = "csv"
)

// CellKind discriminates the value held by a Cell
type CellKind int

const (
	CellNull CellKind = iota
	CellString
	CellNumber
)

// Cell is a single spreadsheet cell. Numeric-looking cells keep their
// original text so the validator owns all numeric parsing.
type Cell struct {
	Kind  CellKind `json:"kind"`
	Value string   `json:"value,omitempty"`
}

// NullCell returns a null cell
func NullCell() Cell {
	return Cell{Kind: CellNull}
}

// StringCell returns a string cell
func StringCell(s string) Cell {
	return Cell{Kind: CellString, Value: s}
}

// NumberCell returns a numeric cell, keeping the raw text
func NumberCell(s string) Cell {
	return Cell{Kind: CellNumber, Value: s}
}

// IsNull reports whether the cell holds no value
func (c Cell) IsNull() bool {
	return c.Kind == CellNull
}

// String returns the cell text, empty for null cells
func (c Cell) String() string {
	if c.Kind == CellNull {
		return ""
	}
	return c.Value
}

// RawRow maps a spreadsheet column name to its cell value
type RawRow map[string]Cell

// ParsedSheet is the result of decoding an uploaded file
type ParsedSheet struct {
	Columns   []string `json:"columns"`
	Rows      []RawRow `json:"rows"`
	TotalRows int      `json:"totalRows"`
}

// FieldType is the declared type of a system field
type FieldType string

const (
	FieldText    FieldType = "text"
	FieldNumber  FieldType = "number"
	FieldURL     FieldType = "url"
	FieldBoolean FieldType = "boolean"
)

// SystemField describes one of the fixed catalog fields a spreadsheet
// column can be mapped to
type SystemField struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Required  bool      `json:"required"`
	Type      FieldType `json:"type"`
	MaxLength int       `json:"maxLength,omitempty"`
}

// ColumnMapping assigns a spreadsheet column to a system field.
// SheetColumn is nil when the field is unmapped.
type ColumnMapping struct {
	SystemField string  `json:"systemField"`
	SheetColumn *string `json:"sheetColumn"`
}

// MappingStats summarizes a set of column mappings
type MappingStats struct {
	RequiredTotal     int      `json:"requiredTotal"`
	RequiredMapped    int      `json:"requiredMapped"`
	AllRequiredMapped bool     `json:"allRequiredMapped"`
	TotalMapped       int      `json:"totalMapped"`
	UnusedColumns     []string `json:"unusedColumns"`
}

// Severity of a validation finding
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationError is a single per-row finding. Row is the physical
// spreadsheet row (1-indexed, header included).
type ValidationError struct {
	Row      int      `json:"row"`
	Column   string   `json:"column"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Value    *string  `json:"value"`
	Severity Severity `json:"severity"`
}

// ValidationResult is the outcome of validating a mapped sheet
type ValidationResult struct {
	IsValid      bool              `json:"isValid"`
	TotalRows    int               `json:"totalRows"`
	ValidRows    int               `json:"validRows"`
	ErrorCount   int               `json:"errorCount"`
	WarningCount int               `json:"warningCount"`
	Errors       []ValidationError `json:"errors"`
	Duplicates   map[string][]int  `json:"duplicates"`
}

// CatalogItemData is the canonical, normalized representation of a
// product row. Code is the natural key within a version.
type CatalogItemData struct {
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	PriceUSD    float64            `json:"price_usd"`
	Category    *string            `json:"category"`
	CategoryF1  *string            `json:"category_f1"`
	CategoryF2  *string            `json:"category_f2"`
	CategoryF3  *string            `json:"category_f3"`
	Supplier    *string            `json:"supplier"`
	Warehouse   *string            `json:"warehouse"`
	StoreID     *string            `json:"store_id"`
	StoreName   *string            `json:"store_name"`
	ImageURL    *string            `json:"image_url"`
	ImageFilter *string            `json:"image_filter"`
	States      map[string]string  `json:"states"`
	ExtraPrices map[string]float64 `json:"extra_prices"`
	Flags       map[string]bool    `json:"flags"`
	IsSelected  bool               `json:"is_selected"`
	IsActive    bool               `json:"is_active"`
}

// CatalogStatus is the lifecycle state of a catalog or version
type CatalogStatus string

const (
	StatusDraft     CatalogStatus = "draft"
	StatusPublished CatalogStatus = "published"
	StatusArchived  CatalogStatus = "archived"
)

// Catalog is a named collection of products with versions
type Catalog struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Status      CatalogStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CatalogVersion is an immutable snapshot of items belonging to one
// catalog. At most one version of a catalog is published at a time.
type CatalogVersion struct {
	ID            string        `json:"id"`
	CatalogID     string        `json:"catalog_id"`
	VersionNumber int           `json:"version_number"`
	Status        CatalogStatus `json:"status"`
	Notes         *string       `json:"notes"`
	CreatedAt     time.Time     `json:"created_at"`
}

// FieldChange records one field-level difference between two items
type FieldChange struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Old   any    `json:"oldValue"`
	New   any    `json:"newValue"`
}

// DiffItem is one item's classification within a diff
type DiffItem struct {
	Code     string           `json:"code"`
	Existing *CatalogItemData `json:"existingItem,omitempty"`
	New      *CatalogItemData `json:"newItem,omitempty"`
	Changes  []FieldChange    `json:"changes,omitempty"`
}

// DiffSummary carries per-bucket counts
type DiffSummary struct {
	New       int `json:"new"`
	Modified  int `json:"modified"`
	Deleted   int `json:"deleted"`
	Unchanged int `json:"unchanged"`
}

// DiffResult classifies every item as new, modified, deleted or
// unchanged relative to an existing version
type DiffResult struct {
	Summary        DiffSummary `json:"summary"`
	NewItems       []DiffItem  `json:"newItems"`
	ModifiedItems  []DiffItem  `json:"modifiedItems"`
	DeletedItems   []DiffItem  `json:"deletedItems"`
	UnchangedItems []DiffItem  `json:"unchangedItems"`
}

// ApplyOptions selects which diffed changes to carry into the next
// version. Unselected changes are dropped.
type ApplyOptions struct {
	SelectedNew      map[string]bool `json:"selectedNewCodes"`
	SelectedModified map[string]bool `json:"selectedModifiedCodes"`
	SelectedDeleted  map[string]bool `json:"selectedDeletedCodes"`
}

// StringPtr returns a pointer to the given string
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to the given int
func IntPtr(i int) *int {
	return &i
}

// Float64Ptr returns a pointer to the given float64
func Float64Ptr(f float64) *float64 {
	return &f
}
