// =============================================================================
// Ledger Ingest - Normalized Record Types
// =============================================================================
//
// This package contains the normalized output shape of the ingestion engine
// and the per-run accumulators (error collector, summary aggregator) shared
// by every schema extractor. Types defined here are used by:
//   - extract (the three dialect extractors)
//   - ingest  (the orchestrator)
//   - the out-of-scope persistence layer, which consumes ParseResult
//
// =============================================================================

package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DIALECTS
// =============================================================================

// Dialect identifies which spreadsheet schema family produced a record.
// The persistence layer uses it to select the tenant/company partition.
type Dialect string

const (
	// DialectSingleLedger is the one-sheet, one-row-per-transaction IDRALL
	// export with inline cost and profit columns.
	DialectSingleLedger Dialect = "SINGLE_LEDGER"

	// DialectFourSheet is the legacy export: two companies, each with a
	// transaction-log sheet and a summary/action sheet.
	DialectFourSheet Dialect = "FOUR_SHEET"

	// DialectAccumulatedYear is the accumulated-year export keyed by header
	// names instead of fixed column positions.
	DialectAccumulatedYear Dialect = "ACCUMULATED_YEAR"

	// DialectUnknown is returned by the detector when no dialect matches.
	// The orchestrator still attempts a best-effort single-ledger parse.
	DialectUnknown Dialect = "UNKNOWN"
)

// =============================================================================
// STATUS
// =============================================================================

// Status is the lifecycle status of a transaction.
type Status string

const (
	// StatusActive is the default status for every row.
	StatusActive Status = "ACTIVE"

	// StatusCancelled marks rows whose status field mentions a cancellation
	// (substring match, case-insensitive).
	StatusCancelled Status = "CANCELLED"
)

// =============================================================================
// FOLIO
// =============================================================================

// Folio is the composite invoice key: the raw string form plus the numeric
// id and sub-sequence extracted from "<digits> / <digits>" keys. Numero and
// Secuencia are nil when the raw form does not have the split shape.
type Folio struct {
	Folio     string `json:"folio"`
	Numero    *int64 `json:"numero"`
	Secuencia *int64 `json:"secuencia"`
}

// =============================================================================
// SALES TRANSACTION
// =============================================================================

// SalesTransaction is the normalized output unit. Every accepted transaction
// has a non-empty client and product name and a valid calendar date; active
// transactions additionally have a quantity > 0. Year, month, and week are
// derived from the date, never supplied independently.
type SalesTransaction struct {
	// Fecha is the transaction date, UTC, with no time component.
	Fecha time.Time `json:"fecha"`

	// Folio is the composite invoice key.
	Folio Folio `json:"folio"`

	// Cliente is the client name. Required, non-empty.
	Cliente string `json:"cliente"`

	// Producto is the product name. Required, non-empty.
	Producto string `json:"producto"`

	// Cantidad is the quantity. Positive for active rows; cancelled rows in
	// the single-ledger dialect may legitimately carry zero or negative
	// informational quantity.
	Cantidad decimal.Decimal `json:"cantidad"`

	// Medida is the unit of measure, defaulted per dialect.
	Medida string `json:"medida"`

	// Precio is the unit price, when present.
	Precio *decimal.Decimal `json:"precio,omitempty"`

	// TipoCambio is the exchange rate, when the dialect carries one.
	TipoCambio *decimal.Decimal `json:"tipoCambio,omitempty"`

	// Importe is the gross amount, when present.
	Importe *decimal.Decimal `json:"importe,omitempty"`

	// Cost-side mirrors. Only the single-ledger dialect populates these.
	Costo           *decimal.Decimal `json:"costo,omitempty"`
	TipoCambioCosto *decimal.Decimal `json:"tipoCambioCosto,omitempty"`
	ImporteCosto    *decimal.Decimal `json:"importeCosto,omitempty"`

	// Utilidad and UtilidadPorcentaje are the absolute and percentage
	// profit/loss, when present.
	Utilidad           *decimal.Decimal `json:"utilidad,omitempty"`
	UtilidadPorcentaje *decimal.Decimal `json:"utilidadPorcentaje,omitempty"`

	// Estatus is the lifecycle status, defaulted to active.
	Estatus Status `json:"estatus"`

	// Derived temporal keys, always consistent with Fecha.
	Ano    int `json:"año"`
	Mes    int `json:"mes"`
	Semana int `json:"semana"`

	// Dialect tags which schema family produced the record.
	Dialect Dialect `json:"dialect"`

	// Submodule is the company partition code within the four-sheet dialect
	// ("GO" or "MR"); empty for the other dialects.
	Submodule string `json:"submodule,omitempty"`
}

// =============================================================================
// SALES SUMMARY ROW
// =============================================================================

// SalesSummaryRow is a per-client rollup from the legacy dialect's summary
// sheets: prior vs. current period volume, recommended action, owner.
// Rows without a client name are blank template rows and are dropped
// silently, never counted as errors.
type SalesSummaryRow struct {
	Cliente string `json:"cliente"`

	// Activo is the "is active" flag. Only the GO partition's summary sheet
	// carries the column.
	Activo *bool `json:"activo,omitempty"`

	VolumenAnterior *decimal.Decimal `json:"volumenAnterior,omitempty"`
	VolumenActual   *decimal.Decimal `json:"volumenActual,omitempty"`
	Diferencia      *decimal.Decimal `json:"diferencia,omitempty"`
	ImporteTotal    *decimal.Decimal `json:"importeTotal,omitempty"`

	// UtilidadPorcentaje is only present on the GO partition.
	UtilidadPorcentaje *decimal.Decimal `json:"utilidadPorcentaje,omitempty"`

	// Accion is the free-text recommended action.
	Accion string `json:"accion,omitempty"`

	// Responsable is the free-text responsible owner.
	Responsable string `json:"responsable,omitempty"`

	Dialect   Dialect `json:"dialect"`
	Submodule string  `json:"submodule,omitempty"`
}

// =============================================================================
// PARSE RESULT
// =============================================================================

// ParseResult is the complete outcome of ingesting one workbook. It is
// constructed once per upload, immutable after construction, and handed to
// the persistence layer. The core holds no state across invocations, so
// identical input always yields an identical ParseResult.
type ParseResult struct {
	// Dialect is the schema family the workbook was parsed as.
	Dialect Dialect `json:"dialect"`

	// Transactions is the accepted transaction list.
	Transactions []SalesTransaction `json:"transactions"`

	// Summaries holds the per-client rollups, keyed by partition code.
	// Only the four-sheet dialect produces any.
	Summaries map[string][]SalesSummaryRow `json:"summaries,omitempty"`

	// Errors is the exposed error list, capped at MaxExposedErrors entries.
	// The counters in Statistics are exact and uncapped.
	Errors []ParseError `json:"errors"`

	// Statistics is the per-run summary block.
	Statistics Statistics `json:"statistics"`
}
