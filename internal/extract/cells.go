// =============================================================================
// Ledger Ingest - Shared Cell Helpers
// =============================================================================

package extract

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/idrall/ledger-ingest/internal/workbook"
)

// cellText renders a cell as trimmed text. Numeric cells render without an
// exponent so numeric client codes survive as names; empty and unresolved
// cells render as "".
func cellText(c workbook.Cell) string {
	e := c.Effective()
	switch e.Kind {
	case workbook.KindText:
		return strings.TrimSpace(e.Text)
	case workbook.KindNumber:
		return strconv.FormatFloat(e.Number, 'f', -1, 64)
	case workbook.KindDate:
		return e.Date.Format("2006-01-02")
	default:
		return ""
	}
}

// cellBool interprets an "is active" style flag cell. Returns nil for empty
// cells, true for the affirmative markers the legacy sheets use, false for
// anything else.
func cellBool(c workbook.Cell) *bool {
	text := cellText(c)
	if text == "" {
		return nil
	}
	var v bool
	switch strings.ToLower(text) {
	case "si", "sí", "x", "1", "true", "activo":
		v = true
	default:
		v = false
	}
	return &v
}

// containsFold reports whether s contains substr, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// isPositive reports whether a parsed quantity is present and > 0.
func isPositive(d *decimal.Decimal) bool {
	return d != nil && d.IsPositive()
}

// zeroIfNil replaces a missing decimal with zero.
func zeroIfNil(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
