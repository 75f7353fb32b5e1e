// =============================================================================
// Ledger Ingest - Dialect Column Maps
// =============================================================================
//
// Column positions are the part of this system most likely to drift when a
// spreadsheet template changes, so each dialect's layout is an explicit,
// named structure built once per sheet. The row-processing loops read
// through these maps and never hard-code an offset.
//
// A position of -1 means the column does not exist for that layout.
//
// =============================================================================

package extract

// defaultMedida is the unit of measure applied when a dialect has no medida
// column or the cell is blank.
const defaultMedida = "PZA"

// =============================================================================
// SINGLE-LEDGER (IDRALL) LAYOUT
// =============================================================================

// singleLedgerColumns is the IDRALL export's fixed 15-column layout,
// relative to the located header row.
type singleLedgerColumns struct {
	Folio              int
	Estatus            int
	Fecha              int
	Cliente            int
	Producto           int
	Cantidad           int
	Medida             int
	Precio             int
	TipoCambio         int
	Importe            int
	Costo              int
	TipoCambioCosto    int
	ImporteCosto       int
	Utilidad           int
	UtilidadPorcentaje int
}

func defaultSingleLedgerColumns() singleLedgerColumns {
	return singleLedgerColumns{
		Folio:              0,
		Estatus:            1,
		Fecha:              2,
		Cliente:            3,
		Producto:           4,
		Cantidad:           5,
		Medida:             6,
		Precio:             7,
		TipoCambio:         8,
		Importe:            9,
		Costo:              10,
		TipoCambioCosto:    11,
		ImporteCosto:       12,
		Utilidad:           13,
		UtilidadPorcentaje: 14,
	}
}

// singleLedgerHeaderKeywords locate the header row: a row matching at least
// 3 of these within the first 10 rows is the header.
var singleLedgerHeaderKeywords = []string{
	"folio",
	"estatus",
	"fecha",
	"cliente",
	"producto",
	"cantidad",
	"medida",
}

// =============================================================================
// FOUR-SHEET LEGACY LAYOUT
// =============================================================================

// fourSheetTxColumns is the fixed layout of a legacy transaction-log sheet.
// The two company partitions use different orders and carry different
// optional columns.
type fourSheetTxColumns struct {
	Fecha      int
	Folio      int
	Cliente    int
	Producto   int
	Familia    int
	Cantidad   int
	Precio     int
	Importe    int
	TipoCambio int
	ImporteMN  int
	Ano        int
	Mes        int
}

// fourSheetSummaryColumns is the fixed layout of a legacy summary/action
// sheet. The header sits at row 6; data starts at row 7.
type fourSheetSummaryColumns struct {
	Cliente            int
	Activo             int
	VolumenAnterior    int
	VolumenActual      int
	Diferencia         int
	ImporteTotal       int
	UtilidadPorcentaje int
	Accion             int
	Responsable        int
}

// summaryHeaderRow is the 0-based index of the fixed summary header (row 6
// as users see it); data begins on the following row.
const summaryHeaderRow = 5

// fourSheetPartition describes one company partition of the legacy
// workbook: its sheets and its two column maps.
type fourSheetPartition struct {
	// Code is the partition tag carried on every record from this
	// partition.
	Code string

	// TxSheet and SummarySheet are matched against the workbook's sheet
	// names by case-insensitive substring.
	TxSheet      string
	SummarySheet string

	Tx      fourSheetTxColumns
	Summary fourSheetSummaryColumns
}

// fourSheetPartitions returns the two legacy company partitions.
func fourSheetPartitions() []fourSheetPartition {
	return []fourSheetPartition{
		{
			Code:         "GO",
			TxSheet:      "VENTAS GO",
			SummarySheet: "ACCIONES GO",
			Tx: fourSheetTxColumns{
				Fecha:      0,
				Folio:      1,
				Cliente:    2,
				Producto:   3,
				Cantidad:   4,
				Precio:     5,
				Importe:    6,
				Ano:        7,
				Mes:        8,
				Familia:    -1,
				TipoCambio: -1,
				ImporteMN:  -1,
			},
			Summary: fourSheetSummaryColumns{
				Cliente:            0,
				Activo:             1,
				VolumenAnterior:    2,
				VolumenActual:      3,
				Diferencia:         4,
				ImporteTotal:       5,
				UtilidadPorcentaje: 6,
				Accion:             7,
				Responsable:        8,
			},
		},
		{
			Code:         "MR",
			TxSheet:      "VENTAS MR",
			SummarySheet: "ACCIONES MR",
			Tx: fourSheetTxColumns{
				Folio:      0,
				Fecha:      1,
				Cliente:    2,
				Producto:   3,
				Familia:    4,
				Cantidad:   5,
				Importe:    6,
				TipoCambio: 7,
				ImporteMN:  8,
				Precio:     -1,
				Ano:        -1,
				Mes:        -1,
			},
			Summary: fourSheetSummaryColumns{
				Cliente:            0,
				VolumenAnterior:    1,
				VolumenActual:      2,
				Diferencia:         3,
				ImporteTotal:       4,
				Accion:             5,
				Responsable:        6,
				Activo:             -1,
				UtilidadPorcentaje: -1,
			},
		},
	}
}

// =============================================================================
// ACCUMULATED-YEAR LAYOUT
// =============================================================================

// accumulatedColumns is resolved per-sheet by case-insensitive substring
// match against the header row, because the accumulated workbook's column
// order is not guaranteed. Cliente, Producto, and Cantidad are required;
// the rest are -1 when absent.
type accumulatedColumns struct {
	Cliente  int
	Producto int
	Cantidad int
	Fecha    int
	Mes      int
	Folio    int
	Precio   int
	Importe  int
	Medida   int
}

// accumulatedHeaderNames maps the layout's fields to the header substrings
// used to resolve them.
var accumulatedHeaderNames = map[string]string{
	"cliente":  "cliente",
	"producto": "producto",
	"cantidad": "cantidad",
	"fecha":    "fecha",
	"mes":      "mes",
	"folio":    "folio",
	"precio":   "precio",
	"importe":  "importe",
	"medida":   "medida",
}
