// =============================================================================
// Ledger Ingest - Week Calculator
// =============================================================================

package fieldparse

import "time"

// WeekNumber derives an ISO-8601-style week number (1..53) for a calendar
// date: shift the date to the Thursday of its week, then count weeks from
// that Thursday's year start.
//
// The arithmetic is UTC throughout. The same derivation runs at parse time
// and again inside each extractor, so a timezone-dependent version would
// disagree with itself around week boundaries.
func WeekNumber(t time.Time) int {
	d := truncateUTC(t)

	// Monday-based weekday: Monday=1 .. Sunday=7.
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	// Thursday of this date's week decides the week-numbering year.
	thursday := d.AddDate(0, 0, 4-weekday)
	yearStart := time.Date(thursday.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	days := int(thursday.Sub(yearStart).Hours() / 24)
	return days/7 + 1
}
