// =============================================================================
// Ledger Ingest - Workbook Model
// =============================================================================
//
// This package defines the in-memory representation of a parsed workbook that
// the format detector and the schema extractors operate on. The model is
// deliberately decoupled from any spreadsheet library: the extractors never
// see excelize types, only this package's closed cell variant.
//
// CELL VARIANT:
//   Spreadsheet cells are loosely typed at the source. Rather than coercing
//   ad hoc, every cell is classified into exactly one of:
//     Empty | Number | Text | Date | Formula{raw, computed result}
//   and every field parser pattern-matches over that classification.
//
// =============================================================================

package workbook

import (
	"strings"
	"time"
)

// CellKind identifies which variant of the cell model a cell carries.
type CellKind int

const (
	// KindEmpty is a cell with no usable value (blank, or an unsupported type).
	KindEmpty CellKind = iota

	// KindNumber is a plain numeric cell.
	KindNumber

	// KindText is a string cell.
	KindText

	// KindDate is a cell the source format resolved to a calendar date.
	KindDate

	// KindFormula is a cell carrying a formula. The separately-computed
	// result, when the source provides one, is stored alongside the raw
	// formula text and takes precedence during extraction.
	KindFormula
)

// Cell is a single cell value from a workbook sheet.
//
// Only the fields matching Kind are meaningful; the zero value is an empty
// cell. Formula cells carry the computed result as a nested cell (itself
// never a formula).
type Cell struct {
	Kind CellKind

	// Number is set when Kind == KindNumber.
	Number float64

	// Text is set when Kind == KindText. For formula cells it holds the raw
	// formula string (e.g. "=B2*C2").
	Text string

	// Date is set when Kind == KindDate.
	Date time.Time

	// Result is the computed value of a formula cell, or nil when the source
	// did not provide one. Always nil for non-formula cells.
	Result *Cell
}

// Empty returns an empty cell.
func Empty() Cell { return Cell{Kind: KindEmpty} }

// Num returns a numeric cell.
func Num(v float64) Cell { return Cell{Kind: KindNumber, Number: v} }

// Str returns a string cell.
func Str(s string) Cell { return Cell{Kind: KindText, Text: s} }

// DateCell returns a date cell.
func DateCell(t time.Time) Cell { return Cell{Kind: KindDate, Date: t} }

// Formula returns a formula cell with an optional computed result.
func Formula(raw string, result *Cell) Cell {
	return Cell{Kind: KindFormula, Text: raw, Result: result}
}

// Effective resolves a cell to the value extraction should use: for formula
// cells with a computed result, the result; otherwise the cell itself.
func (c Cell) Effective() Cell {
	if c.Kind == KindFormula && c.Result != nil {
		return *c.Result
	}
	return c
}

// IsEmpty reports whether the cell, after formula resolution, carries no
// value at all. A text cell holding only whitespace counts as empty.
func (c Cell) IsEmpty() bool {
	e := c.Effective()
	switch e.Kind {
	case KindEmpty:
		return true
	case KindText:
		return trimmed(e.Text) == ""
	case KindFormula:
		// Formula without a computed result: nothing to extract.
		return true
	default:
		return false
	}
}

// Sheet is one named sheet of a workbook, with its rows in source order.
type Sheet struct {
	// Name is the sheet name as it appears in the workbook.
	Name string

	// Rows holds the sheet's cells. Rows and columns are 0-indexed here;
	// error reporting converts to the 1-based numbering users see in their
	// spreadsheet application.
	Rows [][]Cell
}

// NewSheet creates a sheet from a grid of cells.
func NewSheet(name string, rows [][]Cell) *Sheet {
	return &Sheet{Name: name, Rows: rows}
}

// RowCount returns the number of rows in the sheet.
func (s *Sheet) RowCount() int { return len(s.Rows) }

// Cell returns the cell at (row, col), or an empty cell when the position
// lies outside the stored grid. Short rows are common in real exports, so
// out-of-range access is not an error.
func (s *Sheet) Cell(row, col int) Cell {
	if row < 0 || row >= len(s.Rows) {
		return Empty()
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return Empty()
	}
	return r[col]
}

// Row returns the cells of a single row, or nil when out of range.
func (s *Sheet) Row(row int) []Cell {
	if row < 0 || row >= len(s.Rows) {
		return nil
	}
	return s.Rows[row]
}

// Workbook is an in-memory parsed workbook: a list of named sheets in file
// order.
type Workbook struct {
	// SourceFile is the path the workbook was loaded from, when known.
	// Empty for workbooks built in memory.
	SourceFile string

	// Sheets holds the workbook's sheets in file order.
	Sheets []*Sheet
}

// New creates a workbook from a list of sheets.
func New(sheets ...*Sheet) *Workbook {
	return &Workbook{Sheets: sheets}
}

// SheetNames returns the sheet names in file order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns the sheet with the given name, or nil if absent.
func (w *Workbook) Sheet(name string) *Sheet {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// SheetContaining returns the first sheet whose name contains the given
// substring, compared case-insensitively. Returns nil if none matches.
func (w *Workbook) SheetContaining(substr string) *Sheet {
	for _, s := range w.Sheets {
		if containsFold(s.Name, substr) {
			return s
		}
	}
	return nil
}

// First returns the first sheet of the workbook, or nil for an empty one.
func (w *Workbook) First() *Sheet {
	if len(w.Sheets) == 0 {
		return nil
	}
	return w.Sheets[0]
}

// =============================================================================
// STRING HELPERS
// =============================================================================

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// containsFold reports whether s contains substr, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
