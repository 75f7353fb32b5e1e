package fieldparse

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/idrall/ledger-ingest/internal/workbook"
)

func TestParseNumberString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		nil_ bool
	}{
		{name: "plain integer", raw: "1524", want: "1524"},
		{name: "plain decimal", raw: "15.24", want: "15.24"},
		{name: "leading and trailing spaces", raw: "  42  ", want: "42"},
		{name: "currency symbol", raw: "$1,250.50", want: "1250.5"},
		{name: "thousands commas", raw: "1,234,567", want: "1234567"},
		{name: "accounting negative", raw: "(123)", want: "-123"},
		{name: "accounting negative with currency", raw: "($1,500.00)", want: "-1500"},
		{name: "percent stays unscaled", raw: "50%", want: "50"},
		{name: "percent with decimals", raw: "12.5%", want: "12.5"},
		{name: "percent with space", raw: "50 %", want: "50"},
		{name: "double dot thousands", raw: "1.524.00", want: "152400"},
		{name: "triple dot thousands", raw: "1.234.567.89", want: "123456789"},
		{name: "negative plain", raw: "-42.5", want: "-42.5"},
		{name: "empty", raw: "", nil_: true},
		{name: "whitespace only", raw: "   ", nil_: true},
		{name: "not a number", raw: "N/A", nil_: true},
		{name: "lone currency symbol", raw: "$", nil_: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumberString(tt.raw)
			if tt.nil_ {
				if got != nil {
					t.Fatalf("ParseNumberString(%q) = %s, want nil", tt.raw, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseNumberString(%q) = nil, want %s", tt.raw, tt.want)
			}
			want, err := decimal.NewFromString(tt.want)
			if err != nil {
				t.Fatalf("bad want value %q: %v", tt.want, err)
			}
			if !got.Equal(want) {
				t.Errorf("ParseNumberString(%q) = %s, want %s", tt.raw, got, want)
			}
		})
	}
}

func TestParseNumberCells(t *testing.T) {
	result := workbook.Num(42)

	tests := []struct {
		name string
		cell workbook.Cell
		want string
		nil_ bool
	}{
		{name: "numeric cell", cell: workbook.Num(15.5), want: "15.5"},
		{name: "text cell", cell: workbook.Str("$2,000"), want: "2000"},
		{name: "formula uses computed result", cell: workbook.Formula("=B2*C2", &result), want: "42"},
		{name: "formula without result", cell: workbook.Formula("=B2*C2", nil), nil_: true},
		{name: "empty cell", cell: workbook.Empty(), nil_: true},
		{name: "NaN", cell: workbook.Num(math.NaN()), nil_: true},
		{name: "positive infinity", cell: workbook.Num(math.Inf(1)), nil_: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumber(tt.cell)
			if tt.nil_ {
				if got != nil {
					t.Fatalf("ParseNumber = %s, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseNumber = nil, want %s", tt.want)
			}
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ParseNumber = %s, want %s", got, want)
			}
		})
	}
}
