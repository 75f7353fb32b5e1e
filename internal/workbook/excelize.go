// =============================================================================
// Ledger Ingest - XLSX Loader
// =============================================================================
//
// This file loads an .xlsx file into the in-memory workbook model using
// excelize. Loading happens strictly before the core is invoked; the
// detector and extractors only ever see the loaded model.
//
// FORMULA CELLS:
//   For cells carrying a formula, the loader captures both the raw formula
//   text and the cached computed value the exporting application stored in
//   the file. The computed value is what extraction uses; the raw text is
//   kept for error echoes.
//
// =============================================================================

package workbook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load reads an .xlsx file from disk and converts it to a Workbook.
func Load(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	wb, err := FromExcelize(f)
	if err != nil {
		return nil, err
	}
	wb.SourceFile = path
	return wb, nil
}

// FromExcelize converts an open excelize file to a Workbook.
func FromExcelize(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{}

	for _, name := range f.GetSheetList() {
		sheet, err := loadSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	return wb, nil
}

// loadSheet reads one sheet into the cell model.
func loadSheet(f *excelize.File, name string) (*Sheet, error) {
	// Raw values keep numbers as numbers instead of their display format,
	// which matters for date serials and high-precision amounts.
	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	rows := make([][]Cell, len(raw))
	for ri, rawRow := range raw {
		cells := make([]Cell, len(rawRow))
		for ci, value := range rawRow {
			axis, err := excelize.CoordinatesToCellName(ci+1, ri+1)
			if err != nil {
				return nil, fmt.Errorf("invalid coordinates (%d,%d): %w", ri, ci, err)
			}
			cells[ci] = loadCell(f, name, axis, value)
		}
		rows[ri] = cells
	}

	return NewSheet(name, rows), nil
}

// loadCell classifies a single cell. The raw string comes from GetRows and
// is used for plain cells; formula cells additionally query the formula text
// and the cached result.
func loadCell(f *excelize.File, sheet, axis, raw string) Cell {
	formula, err := f.GetCellFormula(sheet, axis)
	if err == nil && formula != "" {
		return Formula("="+formula, classifyScalar(raw))
	}

	cellType, err := f.GetCellType(sheet, axis)
	if err == nil && cellType == excelize.CellTypeBool {
		// Booleans carry no information for any of the ledger dialects.
		return Empty()
	}

	c := classifyScalar(raw)
	if c == nil {
		return Empty()
	}
	return *c
}

// classifyScalar turns a raw cell string into a Number or Text cell.
// Date-formatted cells arrive here as their underlying serial number; the
// date parser is responsible for interpreting serials.
func classifyScalar(raw string) *Cell {
	trimmedVal := strings.TrimSpace(raw)
	if trimmedVal == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(trimmedVal, 64); err == nil {
		c := Num(n)
		return &c
	}
	c := Str(raw)
	return &c
}
