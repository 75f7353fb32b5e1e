// =============================================================================
// Ledger Ingest - Four-Sheet Legacy Extractor
// =============================================================================
//
// The legacy export covers two companies; each contributes a transaction-log
// sheet and a summary/action sheet, four sheets total. The extractor runs
// once per company partition and produces an independent transaction list
// and an independent summary list per partition.
//
// UNLIKE THE IDRALL DIALECT:
//   - rows with a missing client, product, or non-positive quantity are
//     dropped silently, not rejected; the legacy sheets are littered with
//     subtotal and spacer rows that are not data-quality problems
//   - the date parse falls back to the current date instead of failing,
//     preserving what the legacy consumers have always been given
//   - the summary header is fixed at row 6; no scanning
//
// =============================================================================

package extract

import (
	"fmt"

	"github.com/idrall/ledger-ingest/internal/fieldparse"
	"github.com/idrall/ledger-ingest/internal/ledger"
	"github.com/idrall/ledger-ingest/internal/workbook"
)

// FourSheet extracts the legacy dialect: both company partitions, each from
// its transaction-log and summary sheets. A partition whose sheets are
// absent contributes nothing; the extraction only fails when no partition
// has any sheet at all.
func FourSheet(wb *workbook.Workbook) (*ledger.ParseResult, error) {
	collector := ledger.NewCollector()
	aggregator := ledger.NewAggregator()
	transactions := []ledger.SalesTransaction{}
	summaries := map[string][]ledger.SalesSummaryRow{}

	sheetsFound := 0
	for _, partition := range fourSheetPartitions() {
		if txSheet := wb.SheetContaining(partition.TxSheet); txSheet != nil {
			sheetsFound++
			for _, tx := range extractPartitionTransactions(txSheet, partition, collector) {
				transactions = append(transactions, tx)
				aggregator.Add(tx)
			}
		}
		if summarySheet := wb.SheetContaining(partition.SummarySheet); summarySheet != nil {
			sheetsFound++
			summaries[partition.Code] = extractPartitionSummaries(summarySheet, partition)
		}
	}

	if sheetsFound == 0 {
		return nil, fmt.Errorf("workbook has none of the legacy sheets")
	}

	return &ledger.ParseResult{
		Dialect:      ledger.DialectFourSheet,
		Transactions: transactions,
		Summaries:    summaries,
		Errors:       collector.Errors(),
		Statistics:   aggregator.Finalize(collector),
	}, nil
}

// extractPartitionTransactions walks a transaction-log sheet. Data starts
// on the row after the single header row.
func extractPartitionTransactions(sheet *workbook.Sheet, partition fourSheetPartition, collector *ledger.Collector) []ledger.SalesTransaction {
	cols := partition.Tx
	out := []ledger.SalesTransaction{}

	for row := 1; row < sheet.RowCount(); row++ {
		tx, ok := extractFourSheetRow(sheet, row, partition, cols, collector)
		if ok {
			out = append(out, *tx)
		}
	}
	return out
}

func extractFourSheetRow(sheet *workbook.Sheet, row int, partition fourSheetPartition, cols fourSheetTxColumns, collector *ledger.Collector) (tx *ledger.SalesTransaction, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			collector.Reject(row+1, fmt.Sprintf("unexpected cell content: %v", r))
			tx, ok = nil, false
		}
	}()

	cliente := cellText(sheet.Cell(row, cols.Cliente))
	producto := cellText(sheet.Cell(row, cols.Producto))
	cantidad := fieldparse.ParseNumber(sheet.Cell(row, cols.Cantidad))

	// Subtotal, spacer, and template rows: dropped, not erred.
	if cliente == "" || producto == "" || !isPositive(cantidad) {
		return nil, false
	}

	fecha := fieldparse.ParseDateOrNow(sheet.Cell(row, cols.Fecha), 0)

	ano := fecha.Year()
	mes := int(fecha.Month())
	if cols.Ano >= 0 {
		if v := fieldparse.ParseNumber(sheet.Cell(row, cols.Ano)); v != nil && v.IsPositive() {
			ano = int(v.IntPart())
		}
	}
	if cols.Mes >= 0 {
		if v := fieldparse.ParseNumber(sheet.Cell(row, cols.Mes)); v != nil {
			if m := int(v.IntPart()); m >= 1 && m <= 12 {
				mes = m
			}
		}
	}

	result := ledger.SalesTransaction{
		Fecha:     fecha,
		Folio:     fieldparse.ParseFolio(sheet.Cell(row, cols.Folio)),
		Cliente:   cliente,
		Producto:  producto,
		Cantidad:  *cantidad,
		Medida:    defaultMedida,
		Estatus:   ledger.StatusActive,
		Ano:       ano,
		Mes:       mes,
		Semana:    fieldparse.WeekNumber(fecha),
		Dialect:   ledger.DialectFourSheet,
		Submodule: partition.Code,
	}
	if cols.Precio >= 0 {
		result.Precio = fieldparse.ParseNumber(sheet.Cell(row, cols.Precio))
	}
	if cols.Importe >= 0 {
		result.Importe = fieldparse.ParseNumber(sheet.Cell(row, cols.Importe))
	}
	if cols.TipoCambio >= 0 {
		result.TipoCambio = fieldparse.ParseNumber(sheet.Cell(row, cols.TipoCambio))
	}
	return &result, true
}

// extractPartitionSummaries walks a summary/action sheet. The header is
// fixed at row 6; data starts at row 7. Rows without a client name are
// blank template rows and are dropped silently, never counted as errors.
func extractPartitionSummaries(sheet *workbook.Sheet, partition fourSheetPartition) []ledger.SalesSummaryRow {
	cols := partition.Summary
	out := []ledger.SalesSummaryRow{}

	for row := summaryHeaderRow + 1; row < sheet.RowCount(); row++ {
		cliente := cellText(sheet.Cell(row, cols.Cliente))
		if cliente == "" {
			continue
		}

		summary := ledger.SalesSummaryRow{
			Cliente:         cliente,
			VolumenAnterior: fieldparse.ParseNumber(sheet.Cell(row, cols.VolumenAnterior)),
			VolumenActual:   fieldparse.ParseNumber(sheet.Cell(row, cols.VolumenActual)),
			Diferencia:      fieldparse.ParseNumber(sheet.Cell(row, cols.Diferencia)),
			ImporteTotal:    fieldparse.ParseNumber(sheet.Cell(row, cols.ImporteTotal)),
			Accion:          cellText(sheet.Cell(row, cols.Accion)),
			Responsable:     cellText(sheet.Cell(row, cols.Responsable)),
			Dialect:         ledger.DialectFourSheet,
			Submodule:       partition.Code,
		}
		if cols.Activo >= 0 {
			summary.Activo = cellBool(sheet.Cell(row, cols.Activo))
		}
		if cols.UtilidadPorcentaje >= 0 {
			summary.UtilidadPorcentaje = fieldparse.ParseNumber(sheet.Cell(row, cols.UtilidadPorcentaje))
		}
		out = append(out, summary)
	}
	return out
}
