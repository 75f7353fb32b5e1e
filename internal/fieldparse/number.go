// =============================================================================
// Ledger Ingest - Field Parsers: Numbers
// =============================================================================
//
// Locale-tolerant numeric decoding for cells coming out of the accounting
// exports. The exports mix plain numbers, currency strings with thousands
// separators, accounting-negative parenthesization, percentage strings, and
// one dialect's double-dot thousands quirk, so string parsing here is far
// more forgiving than strconv.
//
// =============================================================================

package fieldparse

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/idrall/ledger-ingest/internal/workbook"
)

// ParseNumber decodes a cell into a decimal, or nil when the cell carries no
// usable numeric value. Formula cells are resolved to their computed result
// first.
//
// String handling:
//   - currency symbols ("$"), thousands commas, and surrounding whitespace
//     are stripped
//   - "(123)" is accounting notation for -123
//   - a trailing "%" is stripped and the magnitude returned unscaled:
//     "50%" parses as 50, not 0.5. This mirrors the source ledgers'
//     long-standing behavior; downstream consumers rely on the unscaled
//     value, so it is deliberately not normalized here.
//   - two or more dots ("1.524.00") is the IDRALL export's dot-thousands
//     quirk; all dots are stripped, yielding 152400
func ParseNumber(c workbook.Cell) *decimal.Decimal {
	e := c.Effective()

	switch e.Kind {
	case workbook.KindNumber:
		if math.IsNaN(e.Number) || math.IsInf(e.Number, 0) {
			return nil
		}
		d := decimal.NewFromFloat(e.Number)
		return &d

	case workbook.KindText:
		return ParseNumberString(e.Text)

	default:
		// Empty cells, dates, and unresolved formulas carry no number.
		return nil
	}
}

// ParseNumberString decodes a raw string using the same rules as
// ParseNumber. Empty and whitespace-only strings yield nil.
func ParseNumberString(raw string) *decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if strings.HasSuffix(s, "%") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}

	// Double-dot thousands quirk: "1.524.00" -> "152400".
	if strings.Count(s, ".") >= 2 {
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	if negative {
		d = d.Neg()
	}
	return &d
}
