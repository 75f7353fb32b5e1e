// =============================================================================
// Ledger Ingest - Field Parsers: Folio Keys
// =============================================================================

package fieldparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/idrall/ledger-ingest/internal/ledger"
	"github.com/idrall/ledger-ingest/internal/workbook"
)

// splitFolioPattern matches the composite "<digits> / <digits>" key shape,
// tolerating whitespace around the slash.
var splitFolioPattern = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)

// ParseFolio extracts the composite invoice key from a cell. The raw string
// form is extracted unconditionally ("" for empty cells); the numeric id and
// sub-sequence are only populated when the string has the split
// "<digits> / <digits>" shape. A bare numeric cell becomes only the string
// form; the split extraction is never attempted on inputs without a slash.
func ParseFolio(c workbook.Cell) ledger.Folio {
	raw := folioString(c)
	f := ledger.Folio{Folio: raw}

	m := splitFolioPattern.FindStringSubmatch(raw)
	if m == nil {
		return f
	}

	numero, errN := strconv.ParseInt(m[1], 10, 64)
	secuencia, errS := strconv.ParseInt(m[2], 10, 64)
	if errN != nil || errS != nil {
		return f
	}

	f.Numero = &numero
	f.Secuencia = &secuencia
	return f
}

// folioString renders a cell as the folio's raw string form.
func folioString(c workbook.Cell) string {
	e := c.Effective()
	switch e.Kind {
	case workbook.KindText:
		return strings.TrimSpace(e.Text)
	case workbook.KindNumber:
		// Integral folios render without an exponent or trailing zeros.
		return strconv.FormatFloat(e.Number, 'f', -1, 64)
	case workbook.KindDate:
		return e.Date.Format("2006-01-02")
	default:
		return ""
	}
}
