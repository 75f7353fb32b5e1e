package extract

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/idrall/ledger-ingest/internal/ledger"
	"github.com/idrall/ledger-ingest/internal/workbook"
)

// singleLedgerHeader is the IDRALL header row as the export writes it.
func singleLedgerHeader() []workbook.Cell {
	return textRow(
		"FOLIO", "ESTATUS", "FECHA", "CLIENTE", "PRODUCTO", "CANTIDAD", "MEDIDA",
		"PRECIO", "TIPO DE CAMBIO", "IMPORTE", "COSTO", "T.C. COSTO",
		"IMPORTE COSTO", "UTILIDAD", "% UTILIDAD",
	)
}

func textRow(values ...string) []workbook.Cell {
	row := make([]workbook.Cell, len(values))
	for i, v := range values {
		if v == "" {
			row[i] = workbook.Empty()
		} else {
			row[i] = workbook.Str(v)
		}
	}
	return row
}

func singleLedgerWorkbook(dataRows ...[]workbook.Cell) *workbook.Workbook {
	rows := [][]workbook.Cell{
		textRow("REPORTE DE VENTAS IDRALL"),
		{},
		singleLedgerHeader(),
	}
	rows = append(rows, dataRows...)
	return workbook.New(workbook.NewSheet("VENTAS", rows))
}

func TestSingleLedgerHappyPath(t *testing.T) {
	wb := singleLedgerWorkbook(
		textRow("101441 / 45", "", "1/15/2025", "Acme Corp", "Widget A", "100", "",
			"$1,250.50", "17.5", "$125,050.00", "900", "17.5", "90000", "35050", "50%"),
	)

	result, err := SingleLedger(wb)
	if err != nil {
		t.Fatalf("SingleLedger failed: %v", err)
	}

	if result.Dialect != ledger.DialectSingleLedger {
		t.Errorf("Dialect = %s, want %s", result.Dialect, ledger.DialectSingleLedger)
	}
	if len(result.Transactions) != 1 {
		t.Fatalf("len(Transactions) = %d, want 1", len(result.Transactions))
	}

	tx := result.Transactions[0]
	if tx.Cliente != "Acme Corp" || tx.Producto != "Widget A" {
		t.Errorf("Cliente/Producto = %q/%q", tx.Cliente, tx.Producto)
	}
	if !tx.Fecha.Equal(time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Fecha = %v", tx.Fecha)
	}
	if tx.Ano != 2025 || tx.Mes != 1 || tx.Semana != 3 {
		t.Errorf("Ano/Mes/Semana = %d/%d/%d, want 2025/1/3", tx.Ano, tx.Mes, tx.Semana)
	}
	if !tx.Cantidad.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Cantidad = %s, want 100", tx.Cantidad)
	}
	if tx.Medida != "PZA" {
		t.Errorf("Medida = %q, want default PZA", tx.Medida)
	}
	if tx.Folio.Numero == nil || *tx.Folio.Numero != 101441 {
		t.Errorf("Folio.Numero = %v, want 101441", tx.Folio.Numero)
	}
	if tx.Folio.Secuencia == nil || *tx.Folio.Secuencia != 45 {
		t.Errorf("Folio.Secuencia = %v, want 45", tx.Folio.Secuencia)
	}
	if tx.Precio == nil || !tx.Precio.Equal(decimal.NewFromFloat(1250.5)) {
		t.Errorf("Precio = %v, want 1250.5", tx.Precio)
	}
	if tx.UtilidadPorcentaje == nil || !tx.UtilidadPorcentaje.Equal(decimal.NewFromInt(50)) {
		t.Errorf("UtilidadPorcentaje = %v, want unscaled 50", tx.UtilidadPorcentaje)
	}
	if tx.Estatus != ledger.StatusActive {
		t.Errorf("Estatus = %s, want %s", tx.Estatus, ledger.StatusActive)
	}

	stats := result.Statistics
	if stats.TotalAccepted != 1 || stats.Activas != 1 || stats.InvalidRows != 0 {
		t.Errorf("Statistics = %+v", stats)
	}
}

func TestSingleLedgerRejections(t *testing.T) {
	wb := singleLedgerWorkbook(
		// Missing client.
		textRow("1001", "", "1/15/2025", "", "Widget A", "10"),
		// Unparseable date.
		textRow("1002", "", "pronto", "Acme Corp", "Widget A", "10"),
		// Active with non-positive quantity.
		textRow("1003", "", "1/15/2025", "Acme Corp", "Widget A", "0"),
		// Entirely blank row: skipped silently.
		nil,
		// Accepted.
		textRow("1004", "", "1/16/2025", "Acme Corp", "Widget B", "5"),
	)

	result, err := SingleLedger(wb)
	if err != nil {
		t.Fatalf("SingleLedger failed: %v", err)
	}

	if len(result.Transactions) != 1 {
		t.Fatalf("len(Transactions) = %d, want 1", len(result.Transactions))
	}
	if got := result.Statistics.InvalidRows; got != 3 {
		t.Errorf("InvalidRows = %d, want 3", got)
	}
	if got := len(result.Errors); got != 3 {
		t.Errorf("len(Errors) = %d, want 3", got)
	}

	// Error rows are 1-based sheet positions: banner, blank, header occupy
	// rows 1..3, so the first data row is row 4.
	if result.Errors[0].Row != 4 {
		t.Errorf("Errors[0].Row = %d, want 4", result.Errors[0].Row)
	}
}

func TestSingleLedgerCancelledRowKeepsZeroQuantity(t *testing.T) {
	wb := singleLedgerWorkbook(
		textRow("1001", "CANCELADO POR CLIENTE", "1/15/2025", "Acme Corp", "Widget A", ""),
	)

	result, err := SingleLedger(wb)
	if err != nil {
		t.Fatalf("SingleLedger failed: %v", err)
	}
	if len(result.Transactions) != 1 {
		t.Fatalf("len(Transactions) = %d, want 1", len(result.Transactions))
	}

	tx := result.Transactions[0]
	if tx.Estatus != ledger.StatusCancelled {
		t.Errorf("Estatus = %s, want %s", tx.Estatus, ledger.StatusCancelled)
	}
	if !tx.Cantidad.IsZero() {
		t.Errorf("Cantidad = %s, want 0", tx.Cantidad)
	}
	if result.Statistics.Canceladas != 1 {
		t.Errorf("Canceladas = %d, want 1", result.Statistics.Canceladas)
	}
}

func TestSingleLedgerFormulaResultPrecedence(t *testing.T) {
	cantidad := workbook.Num(10)
	row := textRow("1001", "", "1/15/2025", "Acme Corp", "Widget A", "")
	row[5] = workbook.Formula("=B2*C2", &cantidad)

	wb := singleLedgerWorkbook(row)
	result, err := SingleLedger(wb)
	if err != nil {
		t.Fatalf("SingleLedger failed: %v", err)
	}
	if len(result.Transactions) != 1 {
		t.Fatalf("len(Transactions) = %d, want 1", len(result.Transactions))
	}
	if got := result.Transactions[0].Cantidad; !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Cantidad = %s, want computed formula result 10", got)
	}
}

func TestSingleLedgerErrorCap(t *testing.T) {
	var rows [][]workbook.Cell
	for i := 0; i < 150; i++ {
		// Every row misses its product name.
		rows = append(rows, textRow(fmt.Sprintf("%d", 1000+i), "", "1/15/2025", "Acme Corp", "", "10"))
	}

	result, err := SingleLedger(singleLedgerWorkbook(rows...))
	if err != nil {
		t.Fatalf("SingleLedger failed: %v", err)
	}

	if got := len(result.Errors); got != ledger.MaxExposedErrors {
		t.Errorf("len(Errors) = %d, want cap %d", got, ledger.MaxExposedErrors)
	}
	if got := result.Statistics.InvalidRows; got != 150 {
		t.Errorf("InvalidRows = %d, want exact 150", got)
	}
}

func TestSingleLedgerNoUsableSheet(t *testing.T) {
	if _, err := SingleLedger(workbook.New()); err == nil {
		t.Error("SingleLedger(empty workbook) succeeded, want structural error")
	}
}

func TestSingleLedgerHeaderOnFirstRow(t *testing.T) {
	// No banner rows at all; the header must still be found at row 0.
	rows := [][]workbook.Cell{
		singleLedgerHeader(),
		textRow("1001", "", "1/15/2025", "Acme Corp", "Widget A", "10"),
	}
	result, err := SingleLedger(workbook.New(workbook.NewSheet("VENTAS", rows)))
	if err != nil {
		t.Fatalf("SingleLedger failed: %v", err)
	}
	if len(result.Transactions) != 1 {
		t.Errorf("len(Transactions) = %d, want 1", len(result.Transactions))
	}
}
