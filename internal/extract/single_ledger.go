// =============================================================================
// Ledger Ingest - Single-Ledger (IDRALL) Extractor
// =============================================================================
//
// The IDRALL export is one sheet, one row per transaction, with inline cost
// and profit columns. The header row floats: operators paste banner rows
// above it, so it is located by scanning the first rows for header keywords
// instead of assuming row 1.
//
// ROW RULES:
//   - rows with no folio, client, or product at all are blank template rows
//     and are skipped silently
//   - rows missing client or product, rows with an unparseable date, and
//     active rows with a missing or non-positive quantity are rejected
//   - cancelled rows with non-positive quantity are accepted; cancellation
//     legitimately implies zero net volume
//
// =============================================================================

package extract

import (
	"fmt"

	"github.com/idrall/ledger-ingest/internal/fieldparse"
	"github.com/idrall/ledger-ingest/internal/ledger"
	"github.com/idrall/ledger-ingest/internal/workbook"
)

// headerScanRows bounds the header search in the IDRALL sheet.
const headerScanRows = 10

// SingleLedger extracts the IDRALL dialect from a workbook's first sheet.
// The returned error is structural only (no usable sheet); every row-level
// problem lands in the result's error list instead.
func SingleLedger(wb *workbook.Workbook) (*ledger.ParseResult, error) {
	sheet := wb.First()
	if sheet == nil || sheet.RowCount() == 0 {
		return nil, fmt.Errorf("workbook has no usable sheet")
	}

	cols := defaultSingleLedgerColumns()
	headerRow := locateHeaderRow(sheet)

	collector := ledger.NewCollector()
	aggregator := ledger.NewAggregator()
	transactions := []ledger.SalesTransaction{}

	for row := headerRow + 1; row < sheet.RowCount(); row++ {
		tx, ok := extractSingleLedgerRow(sheet, row, cols, collector)
		if !ok {
			continue
		}
		transactions = append(transactions, *tx)
		aggregator.Add(*tx)
	}

	return &ledger.ParseResult{
		Dialect:      ledger.DialectSingleLedger,
		Transactions: transactions,
		Errors:       collector.Errors(),
		Statistics:   aggregator.Finalize(collector),
	}, nil
}

// locateHeaderRow scans the first rows for one matching at least 3 of the
// header keywords, defaulting to the first row when none qualifies.
func locateHeaderRow(sheet *workbook.Sheet) int {
	scan := headerScanRows
	if scan > sheet.RowCount() {
		scan = sheet.RowCount()
	}

	for row := 0; row < scan; row++ {
		matches := 0
		for _, keyword := range singleLedgerHeaderKeywords {
			for _, c := range sheet.Row(row) {
				e := c.Effective()
				if e.Kind == workbook.KindText && containsFold(e.Text, keyword) {
					matches++
					break
				}
			}
		}
		if matches >= 3 {
			return row
		}
	}
	return 0
}

// extractSingleLedgerRow turns one sheet row into a transaction, recording
// a rejection and returning false when the row fails validation. An
// unexpected panic while reading a row is converted into a rejection so one
// hostile cell never aborts the sheet.
func extractSingleLedgerRow(sheet *workbook.Sheet, row int, cols singleLedgerColumns, collector *ledger.Collector) (tx *ledger.SalesTransaction, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			collector.Reject(row+1, fmt.Sprintf("unexpected cell content: %v", r))
			tx, ok = nil, false
		}
	}()

	folio := fieldparse.ParseFolio(sheet.Cell(row, cols.Folio))
	cliente := cellText(sheet.Cell(row, cols.Cliente))
	producto := cellText(sheet.Cell(row, cols.Producto))

	// Blank template row: nothing identifying at all.
	if folio.Folio == "" && cliente == "" && producto == "" {
		return nil, false
	}

	if cliente == "" {
		collector.Reject(row+1, "missing client name", folio.Folio)
		return nil, false
	}
	if producto == "" {
		collector.Reject(row+1, "missing product name", folio.Folio, cliente)
		return nil, false
	}

	fecha, hasFecha := fieldparse.ParseDate(sheet.Cell(row, cols.Fecha), 0)
	if !hasFecha {
		collector.Reject(row+1, "unparseable transaction date", folio.Folio, cellText(sheet.Cell(row, cols.Fecha)))
		return nil, false
	}

	estatus := fieldparse.ParseStatus(sheet.Cell(row, cols.Estatus))
	cantidad := fieldparse.ParseNumber(sheet.Cell(row, cols.Cantidad))
	if estatus == ledger.StatusActive && !isPositive(cantidad) {
		collector.Reject(row+1, "active row with missing or non-positive quantity", folio.Folio, cellText(sheet.Cell(row, cols.Cantidad)))
		return nil, false
	}

	medida := cellText(sheet.Cell(row, cols.Medida))
	if medida == "" {
		medida = defaultMedida
	}

	result := ledger.SalesTransaction{
		Fecha:              fecha,
		Folio:              folio,
		Cliente:            cliente,
		Producto:           producto,
		Cantidad:           zeroIfNil(cantidad),
		Medida:             medida,
		Precio:             fieldparse.ParseNumber(sheet.Cell(row, cols.Precio)),
		TipoCambio:         fieldparse.ParseNumber(sheet.Cell(row, cols.TipoCambio)),
		Importe:            fieldparse.ParseNumber(sheet.Cell(row, cols.Importe)),
		Costo:              fieldparse.ParseNumber(sheet.Cell(row, cols.Costo)),
		TipoCambioCosto:    fieldparse.ParseNumber(sheet.Cell(row, cols.TipoCambioCosto)),
		ImporteCosto:       fieldparse.ParseNumber(sheet.Cell(row, cols.ImporteCosto)),
		Utilidad:           fieldparse.ParseNumber(sheet.Cell(row, cols.Utilidad)),
		UtilidadPorcentaje: fieldparse.ParseNumber(sheet.Cell(row, cols.UtilidadPorcentaje)),
		Estatus:            estatus,
		Ano:                fecha.Year(),
		Mes:                int(fecha.Month()),
		Semana:             fieldparse.WeekNumber(fecha),
		Dialect:            ledger.DialectSingleLedger,
	}
	return &result, true
}
