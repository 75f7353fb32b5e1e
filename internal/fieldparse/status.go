// =============================================================================
// Ledger Ingest - Field Parsers: Status
// =============================================================================

package fieldparse

import (
	"strings"

	"github.com/idrall/ledger-ingest/internal/ledger"
	"github.com/idrall/ledger-ingest/internal/workbook"
)

// ParseStatus normalizes a lifecycle status cell. Any value mentioning a
// cancellation is cancelled (case-insensitive substring, so "CANCELADO POR
// CLIENTE" and "cancelled" both match); everything else, including empty
// cells, defaults to active.
func ParseStatus(c workbook.Cell) ledger.Status {
	e := c.Effective()
	if e.Kind != workbook.KindText {
		return ledger.StatusActive
	}
	if strings.Contains(strings.ToLower(e.Text), "cancel") {
		return ledger.StatusCancelled
	}
	return ledger.StatusActive
}
