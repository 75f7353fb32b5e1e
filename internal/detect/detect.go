// =============================================================================
// Ledger Ingest - Format Detection
// =============================================================================
//
// The detector classifies a parsed workbook as one of the three known ledger
// dialects by inspecting sheet names and the first sheet's header row.
// Checks run in a fixed order and the first match wins:
//
//   1. A sheet name containing both the accumulated-export token and the
//      target fiscal year -> ACCUMULATED_YEAR
//   2. Two or more of the four expected legacy sheet names present
//      -> FOUR_SHEET
//   3. The first sheet's header row containing enough of the single-ledger
//      keyword set -> SINGLE_LEDGER
//   4. Otherwise UNKNOWN. The orchestrator still attempts a best-effort
//      single-ledger parse for UNKNOWN workbooks; that fallback lives there,
//      not here.
//
// =============================================================================

package detect

import (
	"strings"

	"github.com/idrall/ledger-ingest/internal/ledger"
	"github.com/idrall/ledger-ingest/internal/workbook"
)

// Settings holds the detection vocabulary. The defaults match the known
// exports; the YAML configuration can override the year token when a new
// fiscal year's accumulated workbook starts circulating.
type Settings struct {
	// AccumulatedToken is the substring identifying the accumulated-year
	// export's sheet name.
	AccumulatedToken string `yaml:"accumulated_token"`

	// FiscalYearToken is the target fiscal year as it appears in the
	// accumulated sheet's name.
	FiscalYearToken string `yaml:"fiscal_year_token"`

	// LegacySheetNames are the four expected legacy sheet names
	// (transaction log and summary sheet for each of the two companies).
	LegacySheetNames []string `yaml:"legacy_sheet_names"`

	// HeaderKeywords is the single-ledger header keyword set.
	HeaderKeywords []string `yaml:"header_keywords"`

	// HeaderScanRows is how many leading rows to scan for the header.
	HeaderScanRows int `yaml:"header_scan_rows"`
}

// DefaultSettings returns the detection vocabulary for the known exports.
func DefaultSettings() Settings {
	return Settings{
		AccumulatedToken: "ACUMULADO",
		FiscalYearToken:  "2025",
		LegacySheetNames: []string{
			"VENTAS GO",
			"ACCIONES GO",
			"VENTAS MR",
			"ACCIONES MR",
		},
		HeaderKeywords: []string{
			"folio",
			"estatus",
			"cliente",
			"producto",
			"cantidad",
			"lote",
		},
		HeaderScanRows: 10,
	}
}

// Detect classifies a workbook. It never fails: workbooks that match no
// dialect are UNKNOWN.
func Detect(wb *workbook.Workbook, settings Settings) ledger.Dialect {
	if wb == nil || len(wb.Sheets) == 0 {
		return ledger.DialectUnknown
	}

	if hasAccumulatedSheet(wb, settings) {
		return ledger.DialectAccumulatedYear
	}

	if countLegacySheets(wb, settings) >= 2 {
		return ledger.DialectFourSheet
	}

	if matchesSingleLedgerHeader(wb.First(), settings) {
		return ledger.DialectSingleLedger
	}

	return ledger.DialectUnknown
}

// hasAccumulatedSheet looks for a sheet whose name carries both the
// accumulated token and the fiscal year token.
func hasAccumulatedSheet(wb *workbook.Workbook, settings Settings) bool {
	for _, name := range wb.SheetNames() {
		upper := strings.ToUpper(name)
		if strings.Contains(upper, strings.ToUpper(settings.AccumulatedToken)) &&
			strings.Contains(upper, settings.FiscalYearToken) {
			return true
		}
	}
	return false
}

// countLegacySheets counts how many of the expected legacy sheet names are
// present, by case-insensitive substring.
func countLegacySheets(wb *workbook.Workbook, settings Settings) int {
	count := 0
	for _, expected := range settings.LegacySheetNames {
		for _, name := range wb.SheetNames() {
			if strings.Contains(strings.ToUpper(name), strings.ToUpper(expected)) {
				count++
				break
			}
		}
	}
	return count
}

// matchesSingleLedgerHeader scans the leading rows of the first sheet for a
// row containing at least 4 of the header keywords.
func matchesSingleLedgerHeader(sheet *workbook.Sheet, settings Settings) bool {
	if sheet == nil {
		return false
	}

	scan := settings.HeaderScanRows
	if scan <= 0 || scan > sheet.RowCount() {
		scan = sheet.RowCount()
	}

	for row := 0; row < scan; row++ {
		if countKeywordMatches(sheet.Row(row), settings.HeaderKeywords) >= 4 {
			return true
		}
	}
	return false
}

// countKeywordMatches counts keywords appearing somewhere in the row's text
// cells, case-insensitively.
func countKeywordMatches(row []workbook.Cell, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		for _, c := range row {
			e := c.Effective()
			if e.Kind != workbook.KindText {
				continue
			}
			if strings.Contains(strings.ToLower(e.Text), strings.ToLower(keyword)) {
				count++
				break
			}
		}
	}
	return count
}
