package workbook

import (
	"testing"
	"time"
)

func TestCellEffective(t *testing.T) {
	result := Num(42)

	tests := []struct {
		name string
		cell Cell
		want Cell
	}{
		{name: "plain number passes through", cell: Num(7), want: Num(7)},
		{name: "formula resolves to result", cell: Formula("=A1*B1", &result), want: Num(42)},
		{name: "formula without result stays formula", cell: Formula("=A1*B1", nil), want: Formula("=A1*B1", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cell.Effective()
			if got.Kind != tt.want.Kind || got.Number != tt.want.Number || got.Text != tt.want.Text {
				t.Errorf("Effective() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCellIsEmpty(t *testing.T) {
	result := Str("x")

	tests := []struct {
		name string
		cell Cell
		want bool
	}{
		{name: "empty cell", cell: Empty(), want: true},
		{name: "whitespace text", cell: Str("   "), want: true},
		{name: "real text", cell: Str("Acme"), want: false},
		{name: "zero number is a value", cell: Num(0), want: false},
		{name: "date", cell: DateCell(time.Now()), want: false},
		{name: "formula without result", cell: Formula("=A1", nil), want: true},
		{name: "formula with result", cell: Formula("=A1", &result), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSheetCellOutOfRange(t *testing.T) {
	sheet := NewSheet("Hoja1", [][]Cell{
		{Str("a"), Str("b")},
		{Str("c")},
	})

	// Short rows and positions beyond the grid read as empty, not panic.
	if got := sheet.Cell(1, 1); got.Kind != KindEmpty {
		t.Errorf("Cell(1,1) = %+v, want empty", got)
	}
	if got := sheet.Cell(5, 0); got.Kind != KindEmpty {
		t.Errorf("Cell(5,0) = %+v, want empty", got)
	}
	if got := sheet.Cell(-1, 0); got.Kind != KindEmpty {
		t.Errorf("Cell(-1,0) = %+v, want empty", got)
	}
	if got := sheet.Cell(0, 1); got.Kind != KindText || got.Text != "b" {
		t.Errorf("Cell(0,1) = %+v, want text b", got)
	}
}

func TestWorkbookSheetLookup(t *testing.T) {
	wb := New(
		NewSheet("Portada", nil),
		NewSheet("ACUMULADO 2025", nil),
	)

	if got := wb.SheetContaining("acumulado"); got == nil || got.Name != "ACUMULADO 2025" {
		t.Errorf("SheetContaining(acumulado) = %v", got)
	}
	if got := wb.SheetContaining("VENTAS"); got != nil {
		t.Errorf("SheetContaining(VENTAS) = %v, want nil", got)
	}
	if got := wb.Sheet("Portada"); got == nil {
		t.Error("Sheet(Portada) = nil")
	}
	if got := wb.First(); got == nil || got.Name != "Portada" {
		t.Errorf("First() = %v", got)
	}
	if got := New().First(); got != nil {
		t.Errorf("First() on empty workbook = %v, want nil", got)
	}
}
