// =============================================================================
// Ledger Ingest - Row Error Collection
// =============================================================================
//
// Per-row problems never abort a parse. They are collected here and reported
// through the ParseResult, with the exposed list capped so a pathological
// workbook cannot balloon the result, while the underlying tallies stay
// exact.
//
// ERROR TAXONOMY:
//   - rejection: a row failed a required-field or business-rule check
//   - exclusion: a row was intentionally filtered by domain rule
//     (cancellation-marker client, aggregate-sentinel client); tallied
//     separately so callers can tell bad data from expected filtering
//   - silent skip: an entirely blank row; counted nowhere
//
// =============================================================================

package ledger

import "fmt"

// MaxExposedErrors caps the error list exposed on ParseResult. Rejection
// counts in Statistics are exact regardless of the cap.
const MaxExposedErrors = 100

// ParseError is a single row-level rejection, addressable back to the
// source sheet.
type ParseError struct {
	// Row is the 1-based row number matching the source sheet.
	Row int `json:"row"`

	// Message is the human-readable rejection reason.
	Message string `json:"message"`

	// Raw optionally echoes the offending raw field values.
	Raw []string `json:"raw,omitempty"`
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Collector accumulates row rejections and exclusion tallies for one parse.
// A fresh Collector is created per call; nothing is shared across
// invocations.
type Collector struct {
	errors []ParseError

	invalid           int
	excludedCancelled int
	excludedAggregate int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Reject records a row rejection. The exposed list stops growing at
// MaxExposedErrors; the invalid tally always increments.
func (c *Collector) Reject(row int, message string, raw ...string) {
	c.invalid++
	if len(c.errors) < MaxExposedErrors {
		c.errors = append(c.errors, ParseError{Row: row, Message: message, Raw: raw})
	}
}

// ExcludeCancelled tallies a row filtered because its client name matched
// the cancellation marker. Not a rejection; not part of the error list.
func (c *Collector) ExcludeCancelled() {
	c.excludedCancelled++
}

// ExcludeAggregate tallies a row filtered because its client name was the
// aggregate/national sentinel.
func (c *Collector) ExcludeAggregate() {
	c.excludedAggregate++
}

// Errors returns the capped, exposed error list.
func (c *Collector) Errors() []ParseError {
	if c.errors == nil {
		return []ParseError{}
	}
	return c.errors
}

// InvalidCount returns the exact number of rejected rows.
func (c *Collector) InvalidCount() int { return c.invalid }

// ExcludedCancelledCount returns the exact cancellation-marker exclusion
// tally.
func (c *Collector) ExcludedCancelledCount() int { return c.excludedCancelled }

// ExcludedAggregateCount returns the exact aggregate-sentinel exclusion
// tally.
func (c *Collector) ExcludedAggregateCount() int { return c.excludedAggregate }
