package repository

import (
	"path/filepath"
	"testing"
	"time"

	"home_bills/internal/models"

	"github.com/xuri/excelize/v2"
)

func TestWorkbook_WriteThenLoad_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bills.xlsx")

	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatalf("OpenWorkbook: %v", err)
	}
	if err := wb.Write(ctx(t), oct2026, models.BathCold, 100); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := wb.Write(ctx(t), oct2026, models.TotalAll, 4208.3); err != nil {
		t.Fatalf("Write total: %v", err)
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen raw: %v", err)
	}
	// October lives in column O, bath_cold in row 3
	if v, _ := f.GetCellValue("2026", "O3"); v != "100" {
		t.Fatalf("O3 = %q, want 100", v)
	}
	_ = f.Close()

	wb, err = OpenWorkbook(path)
	if err != nil {
		t.Fatalf("OpenWorkbook again: %v", err)
	}
	defer func() { _ = wb.Close() }()

	got, err := wb.Load(ctx(t), oct2026)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got[models.BathCold] != 100 || got[models.TotalAll] != 4208.3 || len(got) != 2 {
		t.Fatalf("unexpected readings: %v", got)
	}
}

func TestWorkbook_YearsDoNotAlias(t *testing.T) {
	wb, err := OpenWorkbook(filepath.Join(t.TempDir(), "bills.xlsx"))
	if err != nil {
		t.Fatalf("OpenWorkbook: %v", err)
	}
	defer func() { _ = wb.Close() }()

	dec2025 := models.PeriodKey{Year: 2025, Month: time.December}
	oct2027 := models.PeriodKey{Year: 2027, Month: time.October}

	if err := wb.Write(ctx(t), dec2025, models.ElT3, 530); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := wb.Write(ctx(t), oct2026, models.ElT3, 540); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := wb.Load(ctx(t), dec2025)
	if err != nil || got[models.ElT3] != 530 {
		t.Fatalf("dec 2025: %v %v", got, err)
	}
	got, err = wb.Load(ctx(t), oct2027)
	if err != nil || len(got) != 0 {
		t.Fatalf("oct 2027 must be empty: %v %v", got, err)
	}
}

func TestWorkbook_LoadRates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bills.xlsx")
	f := excelize.NewFile()
	if _, err := f.NewSheet(ratesSheet); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	for cell, v := range map[string]any{
		"B2": 42.3, "B3": "205,15", "B4": 30.9, "B5": 6.72, "B6": 2.32, "B7": 5.66,
	} {
		if err := f.SetCellValue(ratesSheet, cell, v); err != nil {
			t.Fatalf("seed %s: %v", cell, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	_ = f.Close()

	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatalf("OpenWorkbook: %v", err)
	}
	defer func() { _ = wb.Close() }()

	rates, err := wb.LoadRates(ctx(t))
	if err != nil {
		t.Fatalf("LoadRates: %v", err)
	}
	want := models.Rates{ColdWater: 42.3, HotWater: 205.15, Drain: 30.9, ElT1: 6.72, ElT2: 2.32, ElT3: 5.66}
	if rates != want {
		t.Fatalf("rates = %+v, want %+v", rates, want)
	}
}

func TestWorkbook_LoadRates_BlankIsError(t *testing.T) {
	wb, err := OpenWorkbook(filepath.Join(t.TempDir(), "bills.xlsx"))
	if err != nil {
		t.Fatalf("OpenWorkbook: %v", err)
	}
	defer func() { _ = wb.Close() }()

	if _, err := wb.LoadRates(ctx(t)); err == nil {
		t.Fatalf("expected error for missing rates sheet")
	}
}

func TestParseCellNumber(t *testing.T) {
	cases := []struct {
		in     string
		want   float64
		ok     bool
		hasErr bool
	}{
		{"", 0, false, false},
		{"  ", 0, false, false},
		{"12.5", 12.5, true, false},
		{"12,5", 12.5, true, false},
		{"abc", 0, false, true},
	}
	for _, tc := range cases {
		v, ok, err := parseCellNumber(tc.in)
		if (err != nil) != tc.hasErr || ok != tc.ok || v != tc.want {
			t.Errorf("parseCellNumber(%q) = %v,%v,%v", tc.in, v, ok, err)
		}
	}
}
