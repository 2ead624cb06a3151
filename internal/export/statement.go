// Package export renders a bill as a downloadable statement.
package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"home_bills/internal/models"
	"home_bills/internal/money"
)

// Formats.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// Content types by format.
var ContentTypes = map[string]string{
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type line struct {
	name     string
	quantity float64
	rate     float64
	amount   float64
}

func lines(b models.Bill, r models.Rates) []line {
	c, p := b.Consumption, b.Prices
	return []line{
		{"Cold water", c.ColdWater, r.ColdWater, p.ColdWater},
		{"Hot water", c.HotWater, r.HotWater, p.HotWater},
		{"Drain", c.ColdWater + c.HotWater, r.Drain, p.Drain},
		{"Electricity T1", c.ElT1, r.ElT1, p.ElT1},
		{"Electricity T2", c.ElT2, r.ElT2, p.ElT2},
		{"Electricity T3", c.ElT3, r.ElT3, p.ElT3},
	}
}

// truncated formats an amount the way it is spoken: kopecks are cut, not rounded.
func truncated(v float64) string {
	return fmt.Sprintf("%.2f", money.FromFloat(v).Float())
}

// BuildBillPDF renders a one-page statement. Core PDF fonts lack Cyrillic, so labels are English.
func BuildBillPDF(b models.Bill, r models.Rates) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Utility statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Month: %s", b.Period))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 6, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, "Quantity", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Rate", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Amount", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, l := range lines(b, r) {
		pdf.CellFormat(50, 6, l.name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.3f", l.quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", l.rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, truncated(l.amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total: %s RUB", truncated(b.Total)))
	pdf.Ln(5)
	if c := b.Comparison; c != nil {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Previous month: %s RUB (difference %s)", truncated(c.PreviousTotal), truncated(c.Difference)))
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildBillXLSX renders the statement as a workbook with summary and items sheets.
func BuildBillXLSX(b models.Bill, r models.Rates) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summary, items := "summary", "items"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(items); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summary, "A1", "Utility statement")
	_ = f.SetCellValue(summary, "A3", "Month")
	_ = f.SetCellValue(summary, "B3", b.Period.String())
	_ = f.SetCellValue(summary, "A4", "Total")
	_ = f.SetCellValue(summary, "B4", money.FromFloat(b.Total).Float())
	_ = f.SetCellValue(summary, "A5", "Spoken")
	_ = f.SetCellValue(summary, "B5", money.Format(b.Total))
	if c := b.Comparison; c != nil {
		_ = f.SetCellValue(summary, "A6", "Previous total")
		_ = f.SetCellValue(summary, "B6", c.PreviousTotal)
		_ = f.SetCellValue(summary, "A7", "Difference")
		_ = f.SetCellValue(summary, "B7", money.FromFloat(c.Difference).Float())
	}

	for col, h := range []string{"Item", "Quantity", "Rate", "Amount"} {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(items, cell, h)
	}
	for i, l := range lines(b, r) {
		row := i + 2
		_ = f.SetCellValue(items, fmt.Sprintf("A%d", row), l.name)
		_ = f.SetCellValue(items, fmt.Sprintf("B%d", row), l.quantity)
		_ = f.SetCellValue(items, fmt.Sprintf("C%d", row), l.rate)
		_ = f.SetCellValue(items, fmt.Sprintf("D%d", row), money.FromFloat(l.amount).Float())
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Build dispatches on format.
func Build(format string, b models.Bill, r models.Rates) ([]byte, error) {
	switch format {
	case FormatPDF:
		return BuildBillPDF(b, r)
	case FormatXLSX:
		return BuildBillXLSX(b, r)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
