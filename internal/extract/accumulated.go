// =============================================================================
// Ledger Ingest - Accumulated-Year (AccumGO) Extractor
// =============================================================================
//
// The accumulated workbook is a single running sheet for the fiscal year.
// Its column order drifts between exports, so columns are resolved by
// header-name lookup instead of fixed position. Its data discipline is
// looser than the other dialects': dates are frequently missing or mangled,
// and rows are never dropped purely for that. The date degrades to the
// first day of the resolved month, and to January 1 of the target year when
// the month is unresolvable too.
//
// EXCLUSION RULES (applied before validation, tallied separately from
// rejections):
//   - a client name matching the cancellation marker, tolerant of stray
//     internal whitespace ("CANC ELADO" happens in the wild)
//   - a client name that is exactly the national-aggregate sentinel row
//
// =============================================================================

package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/idrall/ledger-ingest/internal/fieldparse"
	"github.com/idrall/ledger-ingest/internal/ledger"
	"github.com/idrall/ledger-ingest/internal/workbook"
)

// cancelledClientPattern matches the cancellation marker with stray
// whitespace tolerated between letters.
var cancelledClientPattern = regexp.MustCompile(`(?i)^\s*c\s*a\s*n\s*c\s*e\s*l`)

// aggregateSentinel is the national-aggregate rollup row the source
// workbook carries alongside ordinary client rows.
const aggregateSentinel = "NACIONAL"

// AccumulatedOptions parameterizes the accumulated-year extraction.
type AccumulatedOptions struct {
	// SheetToken selects the sheet by case-insensitive substring; the
	// workbook's first sheet is used when no name matches.
	SheetToken string

	// TargetYear anchors the date fallbacks.
	TargetYear int
}

// AccumulatedYear extracts the accumulated-year dialect. A missing required
// column (cliente, producto, cantidad) is a structural failure of the whole
// sheet: the extraction returns a single top-level error instead of
// producing per-row noise.
func AccumulatedYear(wb *workbook.Workbook, opts AccumulatedOptions) (*ledger.ParseResult, error) {
	sheet := wb.SheetContaining(opts.SheetToken)
	if sheet == nil {
		sheet = wb.First()
	}
	if sheet == nil || sheet.RowCount() == 0 {
		return nil, fmt.Errorf("workbook has no usable sheet")
	}

	cols, err := resolveAccumulatedColumns(sheet)
	if err != nil {
		return nil, err
	}

	collector := ledger.NewCollector()
	aggregator := ledger.NewAggregator()
	transactions := []ledger.SalesTransaction{}

	for row := 1; row < sheet.RowCount(); row++ {
		tx, ok := extractAccumulatedRow(sheet, row, cols, opts.TargetYear, collector)
		if !ok {
			continue
		}
		transactions = append(transactions, *tx)
		aggregator.Add(*tx)
	}

	return &ledger.ParseResult{
		Dialect:      ledger.DialectAccumulatedYear,
		Transactions: transactions,
		Errors:       collector.Errors(),
		Statistics:   aggregator.Finalize(collector),
	}, nil
}

// resolveAccumulatedColumns builds the column map from the header row by
// case-insensitive substring match.
func resolveAccumulatedColumns(sheet *workbook.Sheet) (accumulatedColumns, error) {
	cols := accumulatedColumns{
		Cliente:  -1,
		Producto: -1,
		Cantidad: -1,
		Fecha:    -1,
		Mes:      -1,
		Folio:    -1,
		Precio:   -1,
		Importe:  -1,
		Medida:   -1,
	}

	header := sheet.Row(0)
	find := func(name string) int {
		for i, c := range header {
			e := c.Effective()
			if e.Kind == workbook.KindText && containsFold(e.Text, name) {
				return i
			}
		}
		return -1
	}

	cols.Cliente = find(accumulatedHeaderNames["cliente"])
	cols.Producto = find(accumulatedHeaderNames["producto"])
	cols.Cantidad = find(accumulatedHeaderNames["cantidad"])
	cols.Fecha = find(accumulatedHeaderNames["fecha"])
	cols.Mes = find(accumulatedHeaderNames["mes"])
	cols.Folio = find(accumulatedHeaderNames["folio"])
	cols.Precio = find(accumulatedHeaderNames["precio"])
	cols.Importe = find(accumulatedHeaderNames["importe"])
	cols.Medida = find(accumulatedHeaderNames["medida"])

	var missing []string
	if cols.Cliente < 0 {
		missing = append(missing, "cliente")
	}
	if cols.Producto < 0 {
		missing = append(missing, "producto")
	}
	if cols.Cantidad < 0 {
		missing = append(missing, "cantidad")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("required columns not found in header: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func extractAccumulatedRow(sheet *workbook.Sheet, row int, cols accumulatedColumns, targetYear int, collector *ledger.Collector) (tx *ledger.SalesTransaction, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			collector.Reject(row+1, fmt.Sprintf("unexpected cell content: %v", r))
			tx, ok = nil, false
		}
	}()

	cliente := cellText(sheet.Cell(row, cols.Cliente))
	producto := cellText(sheet.Cell(row, cols.Producto))
	cantidad := fieldparse.ParseNumber(sheet.Cell(row, cols.Cantidad))

	// Entirely blank row.
	if cliente == "" && producto == "" && cantidad == nil {
		return nil, false
	}

	// Domain exclusions come before validation and are tallied apart from
	// rejections: these rows are expected filtering, not bad data.
	if cancelledClientPattern.MatchString(cliente) {
		collector.ExcludeCancelled()
		return nil, false
	}
	if strings.EqualFold(strings.TrimSpace(cliente), aggregateSentinel) {
		collector.ExcludeAggregate()
		return nil, false
	}

	if cliente == "" {
		collector.Reject(row+1, "missing client name", producto)
		return nil, false
	}
	if producto == "" {
		collector.Reject(row+1, "missing product name", cliente)
		return nil, false
	}
	if !isPositive(cantidad) {
		collector.Reject(row+1, "missing or non-positive quantity", cliente, cellText(sheet.Cell(row, cols.Cantidad)))
		return nil, false
	}

	// Month from the explicit column when present and in range, else from
	// the date; the date itself degrades rather than dropping the row.
	mes := 0
	if cols.Mes >= 0 {
		if v := fieldparse.ParseNumber(sheet.Cell(row, cols.Mes)); v != nil {
			if m := int(v.IntPart()); m >= 1 && m <= 12 {
				mes = m
			}
		}
	}

	var fecha time.Time
	hasFecha := false
	if cols.Fecha >= 0 {
		fecha, hasFecha = fieldparse.ParseDate(sheet.Cell(row, cols.Fecha), targetYear)
	}
	switch {
	case hasFecha && mes == 0:
		mes = int(fecha.Month())
	case !hasFecha && mes != 0:
		fecha = time.Date(targetYear, time.Month(mes), 1, 0, 0, 0, 0, time.UTC)
	case !hasFecha && mes == 0:
		fecha = time.Date(targetYear, time.January, 1, 0, 0, 0, 0, time.UTC)
		mes = 1
	}

	medida := ""
	if cols.Medida >= 0 {
		medida = cellText(sheet.Cell(row, cols.Medida))
	}
	if medida == "" {
		medida = defaultMedida
	}

	result := ledger.SalesTransaction{
		Fecha:    fecha,
		Cliente:  cliente,
		Producto: producto,
		Cantidad: *cantidad,
		Medida:   medida,
		Estatus:  ledger.StatusActive,
		Ano:      fecha.Year(),
		Mes:      mes,
		Semana:   fieldparse.WeekNumber(fecha),
		Dialect:  ledger.DialectAccumulatedYear,
	}
	if cols.Folio >= 0 {
		result.Folio = fieldparse.ParseFolio(sheet.Cell(row, cols.Folio))
	}
	if cols.Precio >= 0 {
		result.Precio = fieldparse.ParseNumber(sheet.Cell(row, cols.Precio))
	}
	if cols.Importe >= 0 {
		result.Importe = fieldparse.ParseNumber(sheet.Cell(row, cols.Importe))
	}
	return &result, true
}
