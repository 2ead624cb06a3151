package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"home_bills/internal/models"
)

func testBill() (models.Bill, models.Rates) {
	return models.Bill{
			Period:      models.PeriodKey{Year: 2026, Month: time.October},
			Consumption: models.Consumption{ColdWater: 20, HotWater: 10, ElT1: 48, ElT2: 2, ElT3: 10},
			Prices:      models.Prices{ColdWater: 846, HotWater: 2051.5, Drain: 927, ElT1: 322.56, ElT2: 4.64, ElT3: 56.6},
			Total:       4208.3,
			Comparison:  &models.Comparison{PreviousTotal: 4000, Difference: 208.3},
		},
		models.Rates{ColdWater: 42.3, HotWater: 205.15, Drain: 30.9, ElT1: 6.72, ElT2: 2.32, ElT3: 5.66}
}

func TestBuildBillPDF(t *testing.T) {
	out, err := BuildBillPDF(testBill())
	if err != nil {
		t.Fatalf("BuildBillPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestBuildBillXLSX(t *testing.T) {
	out, err := BuildBillXLSX(testBill())
	if err != nil {
		t.Fatalf("BuildBillXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	checks := []struct{ sheet, cell, want string }{
		{"summary", "B3", "2026-10"},
		{"summary", "B5", "4208 рублей 30 копеек"},
		{"items", "A4", "Drain"},
		{"items", "B4", "30"},
		{"items", "D2", "846"},
	}
	for _, c := range checks {
		got, err := f.GetCellValue(c.sheet, c.cell)
		if err != nil {
			t.Fatalf("GetCellValue %s!%s: %v", c.sheet, c.cell, err)
		}
		if got != c.want {
			t.Errorf("%s!%s = %q, want %q", c.sheet, c.cell, got, c.want)
		}
	}
}

func TestBuild_UnknownFormat(t *testing.T) {
	b, r := testBill()
	if _, err := Build("csv", b, r); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if _, ok := ContentTypes[FormatXLSX]; !ok {
		t.Fatalf("missing xlsx content type")
	}
}
