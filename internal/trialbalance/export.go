package trialbalance

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Trial Balance"

// BuildPDF renders the report as a single-table PDF.
func BuildPDF(title string, r Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Trial Balance")
	pdf.Ln(8)
	if title != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, title)
		pdf.Ln(8)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 6, Header[0], "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 6, Header[1], "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, Header[2], "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, line := range r.Lines {
		pdf.CellFormat(90, 6, line.Account, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, line.Debit.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, line.Credit.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 6, GrandTotal, "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 6, r.TotalDebit.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(45, 6, r.TotalCredit.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	if !r.Balanced() {
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Unbalanced by %s", r.Difference().StringFixed(2)))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering trial balance PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildXLSX renders the report as a one-sheet workbook.
func BuildXLSX(r Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	for i, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheetName, "A1", "C1", bold)
	}

	row := 2
	for _, line := range r.Lines {
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), line.Account)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), line.Debit.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), line.Credit.InexactFloat64())
		row++
	}
	_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), GrandTotal)
	_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.TotalDebit.InexactFloat64())
	_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.TotalCredit.InexactFloat64())

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("rendering trial balance XLSX: %w", err)
	}
	return buf.Bytes(), nil
}
