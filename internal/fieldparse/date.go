// =============================================================================
// Ledger Ingest - Field Parsers: Dates
// =============================================================================
//
// Date cells arrive in three shapes: native date values, spreadsheet serial
// day-counts, and strings. The source ledgers are US-formatted, so string
// dates are month/day/year with 2-digit-year pivoting.
//
// All arithmetic happens in UTC. The week number is derived both at parse
// time and independently inside the extractors, and a local-timezone shift
// of even one hour around midnight moves rows across day, week, and month
// boundaries.
//
// =============================================================================

package fieldparse

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/idrall/ledger-ingest/internal/workbook"
)

// serialEpochOffset is the day count from the spreadsheet serial epoch to
// the Unix epoch: serial 25569 is 1970-01-01. The effective anchor,
// 1899-12-30, reproduces the spreadsheet numbering for every post-1900 date,
// Lotus leap-year artifact included.
const serialEpochOffset = 25569

// genericLayouts are tried, in order, when a date string is neither
// slash-delimited nor empty.
var genericLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"2006-01-02T15:04:05Z07:00",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseDate decodes a cell into a UTC calendar date (no time component).
// contextYear fills in the year for day/month-only strings; pass 0 when no
// context year applies. Returns false when no date can be extracted.
//
// Accepted shapes:
//   - a native date value (rejected when internally invalid / zero)
//   - a positive serial day-count anchored at the spreadsheet epoch
//   - "M/D/Y" strings, with 2-digit years pivoting at 50: below 50 is
//     2000+year, 50 and above is 1900+year
//   - a handful of generic layouts as a last resort
func ParseDate(c workbook.Cell, contextYear int) (time.Time, bool) {
	e := c.Effective()

	switch e.Kind {
	case workbook.KindDate:
		if e.Date.IsZero() {
			return time.Time{}, false
		}
		return truncateUTC(e.Date), true

	case workbook.KindNumber:
		return fromSerial(e.Number)

	case workbook.KindText:
		return parseDateString(e.Text, contextYear)

	default:
		return time.Time{}, false
	}
}

// ParseDateOrNow is the legacy four-sheet dialect's variant: on total
// failure it falls back to the current UTC date instead of reporting one.
// The fallback is per-dialect on purpose; the legacy consumers expect a
// date on every row.
func ParseDateOrNow(c workbook.Cell, contextYear int) time.Time {
	if d, ok := ParseDate(c, contextYear); ok {
		return d
	}
	return truncateUTC(time.Now().UTC())
}

// fromSerial converts a spreadsheet serial day-count.
func fromSerial(serial float64) (time.Time, bool) {
	if serial <= 0 {
		return time.Time{}, false
	}
	seconds := math.Floor((serial - serialEpochOffset) * 86400)
	return truncateUTC(time.Unix(int64(seconds), 0).UTC()), true
}

// parseDateString handles the string shapes.
func parseDateString(raw string, contextYear int) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if strings.Contains(s, "/") {
		if d, ok := parseSlashDate(s, contextYear); ok {
			return d, true
		}
	}

	for _, layout := range genericLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return truncateUTC(d), true
		}
	}

	return time.Time{}, false
}

// parseSlashDate parses "M/D/Y" (and "M/D" with a context year). The source
// ledgers are US-formatted: month first.
func parseSlashDate(s string, contextYear int) (time.Time, bool) {
	parts := strings.Split(s, "/")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var month, day, year int
	switch len(parts) {
	case 3:
		m, errM := strconv.Atoi(parts[0])
		d, errD := strconv.Atoi(parts[1])
		y, errY := strconv.Atoi(parts[2])
		if errM != nil || errD != nil || errY != nil {
			return time.Time{}, false
		}
		month, day, year = m, d, pivotYear(y)

	case 2:
		if contextYear == 0 {
			return time.Time{}, false
		}
		m, errM := strconv.Atoi(parts[0])
		d, errD := strconv.Atoi(parts[1])
		if errM != nil || errD != nil {
			return time.Time{}, false
		}
		month, day, year = m, d, contextYear

	default:
		return time.Time{}, false
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. April 31 -> May 1); treat any
	// normalization as an invalid source date.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// pivotYear expands 2-digit years: below 50 is 2000+, 50 and above 1900+.
func pivotYear(y int) int {
	if y >= 100 {
		return y
	}
	if y < 50 {
		return 2000 + y
	}
	return 1900 + y
}

// truncateUTC drops the time component, keeping the UTC calendar date.
func truncateUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
