package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"home_bills/internal/models"

	"github.com/xuri/excelize/v2"
)

// Workbook keeps readings in a spreadsheet laid out like the household sheet:
// one sheet per year, one column per month (January is column F), one row per field.
// Every write is saved to disk before returning.
type Workbook struct {
	mu   sync.Mutex
	path string
	file *excelize.File
}

var (
	_ ReadingsRepo = (*Workbook)(nil)
	_ RatesSource  = (*Workbook)(nil)
)

const (
	ratesSheet       = "rates"
	firstMonthColumn = 6 // F
	labelColumn      = "A"
)

var workbookRows = map[models.Field]int{
	models.BathCold:    3,
	models.BathHot:     4,
	models.KitchenCold: 6,
	models.KitchenHot:  7,
	models.ElT1:        9,
	models.ElT2:        10,
	models.ElT3:        11,
	models.TotalCold:   14,
	models.TotalHot:    15,
	models.TotalDrain:  16,
	models.TotalT1:     17,
	models.TotalT2:     18,
	models.TotalT3:     19,
	models.TotalAll:    20,
}

// rateCells are read from column B of the rates sheet, rows 2..7.
var rateCells = []struct {
	name string
	cell string
	set  func(*models.Rates, float64)
}{
	{"cold_water", "B2", func(r *models.Rates, v float64) { r.ColdWater = v }},
	{"hot_water", "B3", func(r *models.Rates, v float64) { r.HotWater = v }},
	{"drain", "B4", func(r *models.Rates, v float64) { r.Drain = v }},
	{"el_t1", "B5", func(r *models.Rates, v float64) { r.ElT1 = v }},
	{"el_t2", "B6", func(r *models.Rates, v float64) { r.ElT2 = v }},
	{"el_t3", "B7", func(r *models.Rates, v float64) { r.ElT3 = v }},
}

// OpenWorkbook opens the workbook at path, creating an empty one if it does not exist.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
		if err := f.SaveAs(path); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create workbook %q: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	return &Workbook{path: path, file: f}, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// Load reads every filled cell of the month's column.
func (w *Workbook) Load(ctx context.Context, key models.PeriodKey) (models.Readings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(models.Readings)
	sheet := yearSheet(key)
	idx, err := w.file.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("lookup sheet %q: %w", sheet, err)
	}
	if idx < 0 {
		return out, nil
	}

	for field, row := range workbookRows {
		cell, err := monthCell(key, row)
		if err != nil {
			return nil, err
		}
		raw, err := w.file.GetCellValue(sheet, cell)
		if err != nil {
			return nil, fmt.Errorf("read %s!%s: %w", sheet, cell, err)
		}
		v, ok, err := parseCellNumber(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s!%s: %w", sheet, cell, err)
		}
		if ok {
			out[field] = v
		}
	}
	return out, nil
}

// Write sets one cell and saves the workbook.
func (w *Workbook) Write(ctx context.Context, key models.PeriodKey, field models.Field, value float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row, ok := workbookRows[field]
	if !ok {
		return fmt.Errorf("unknown field %q", field)
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	sheet, err := w.ensureYearSheet(key)
	if err != nil {
		return err
	}
	cell, err := monthCell(key, row)
	if err != nil {
		return err
	}
	if err := w.file.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("save workbook %q: %w", w.path, err)
	}
	return nil
}

// LoadRates reads the rate table from the rates sheet.
func (w *Workbook) LoadRates(ctx context.Context) (models.Rates, error) {
	if err := ctx.Err(); err != nil {
		return models.Rates{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	var rates models.Rates
	for _, rc := range rateCells {
		raw, err := w.file.GetCellValue(ratesSheet, rc.cell)
		if err != nil {
			return models.Rates{}, fmt.Errorf("read rate %s (%s!%s): %w", rc.name, ratesSheet, rc.cell, err)
		}
		v, ok, err := parseCellNumber(raw)
		if err != nil {
			return models.Rates{}, fmt.Errorf("parse rate %s: %w", rc.name, err)
		}
		if !ok {
			return models.Rates{}, fmt.Errorf("rate %s is blank (%s!%s)", rc.name, ratesSheet, rc.cell)
		}
		rc.set(&rates, v)
	}
	return rates, nil
}

func (w *Workbook) ensureYearSheet(key models.PeriodKey) (string, error) {
	sheet := yearSheet(key)
	idx, err := w.file.GetSheetIndex(sheet)
	if err != nil {
		return "", fmt.Errorf("lookup sheet %q: %w", sheet, err)
	}
	if idx >= 0 {
		return sheet, nil
	}
	if _, err := w.file.NewSheet(sheet); err != nil {
		return "", fmt.Errorf("create sheet %q: %w", sheet, err)
	}
	for field, row := range workbookRows {
		if err := w.file.SetCellValue(sheet, labelColumn+strconv.Itoa(row), string(field)); err != nil {
			return "", fmt.Errorf("label %s: %w", field, err)
		}
	}
	for m := 1; m <= 12; m++ {
		cell, err := excelize.CoordinatesToCellName(firstMonthColumn+m-1, 1)
		if err != nil {
			return "", err
		}
		if err := w.file.SetCellValue(sheet, cell, fmt.Sprintf("%04d-%02d", key.Year, m)); err != nil {
			return "", fmt.Errorf("header %s: %w", cell, err)
		}
	}
	return sheet, nil
}

func yearSheet(key models.PeriodKey) string { return strconv.Itoa(key.Year) }

func monthCell(key models.PeriodKey, row int) (string, error) {
	return excelize.CoordinatesToCellName(firstMonthColumn+int(key.Month)-1, row)
}

// parseCellNumber accepts both "4208.3" and the locale form "4208,3".
func parseCellNumber(raw string) (float64, bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
