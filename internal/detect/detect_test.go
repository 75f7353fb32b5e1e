package detect

import (
	"testing"

	"github.com/idrall/ledger-ingest/internal/ledger"
	"github.com/idrall/ledger-ingest/internal/workbook"
)

func sheetWithHeader(name string, header ...string) *workbook.Sheet {
	row := make([]workbook.Cell, len(header))
	for i, h := range header {
		row[i] = workbook.Str(h)
	}
	return workbook.NewSheet(name, [][]workbook.Cell{row})
}

func TestDetect(t *testing.T) {
	settings := DefaultSettings()

	tests := []struct {
		name string
		wb   *workbook.Workbook
		want ledger.Dialect
	}{
		{
			name: "accumulated sheet name wins",
			wb: workbook.New(
				sheetWithHeader("ACUMULADO 2025", "CLIENTE", "PRODUCTO", "CANTIDAD"),
			),
			want: ledger.DialectAccumulatedYear,
		},
		{
			name: "accumulated token without year is not enough",
			wb: workbook.New(
				sheetWithHeader("ACUMULADO viejo"),
			),
			want: ledger.DialectUnknown,
		},
		{
			name: "two legacy sheets",
			wb: workbook.New(
				sheetWithHeader("VENTAS GO"),
				sheetWithHeader("ACCIONES GO"),
			),
			want: ledger.DialectFourSheet,
		},
		{
			name: "all four legacy sheets",
			wb: workbook.New(
				sheetWithHeader("VENTAS GO"),
				sheetWithHeader("ACCIONES GO"),
				sheetWithHeader("VENTAS MR"),
				sheetWithHeader("ACCIONES MR"),
			),
			want: ledger.DialectFourSheet,
		},
		{
			name: "one legacy sheet is not enough",
			wb: workbook.New(
				sheetWithHeader("VENTAS GO"),
			),
			want: ledger.DialectUnknown,
		},
		{
			name: "single ledger header",
			wb: workbook.New(
				sheetWithHeader("Hoja1", "FOLIO", "ESTATUS", "FECHA", "CLIENTE", "PRODUCTO", "CANTIDAD"),
			),
			want: ledger.DialectSingleLedger,
		},
		{
			name: "single ledger header below banner rows",
			wb: workbook.New(
				workbook.NewSheet("Hoja1", [][]workbook.Cell{
					{workbook.Str("REPORTE DE VENTAS")},
					{},
					{workbook.Str("FOLIO"), workbook.Str("ESTATUS"), workbook.Str("CLIENTE"), workbook.Str("PRODUCTO"), workbook.Str("CANTIDAD")},
				}),
			),
			want: ledger.DialectSingleLedger,
		},
		{
			name: "too few keywords",
			wb: workbook.New(
				sheetWithHeader("Hoja1", "FOLIO", "CLIENTE", "OTRA", "COSA"),
			),
			want: ledger.DialectUnknown,
		},
		{
			name: "accumulated beats legacy sheets",
			wb: workbook.New(
				sheetWithHeader("ACUMULADO 2025"),
				sheetWithHeader("VENTAS GO"),
				sheetWithHeader("ACCIONES GO"),
			),
			want: ledger.DialectAccumulatedYear,
		},
		{
			name: "empty workbook",
			wb:   workbook.New(),
			want: ledger.DialectUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.wb, settings); got != tt.want {
				t.Errorf("Detect = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDetectCustomYearToken(t *testing.T) {
	settings := DefaultSettings()
	settings.FiscalYearToken = "2026"

	wb := workbook.New(sheetWithHeader("ACUMULADO 2026"))
	if got := Detect(wb, settings); got != ledger.DialectAccumulatedYear {
		t.Errorf("Detect = %s, want %s", got, ledger.DialectAccumulatedYear)
	}

	// The old year no longer matches once the token moves on.
	old := workbook.New(sheetWithHeader("ACUMULADO 2025"))
	if got := Detect(old, settings); got != ledger.DialectUnknown {
		t.Errorf("Detect = %s, want %s", got, ledger.DialectUnknown)
	}
}
