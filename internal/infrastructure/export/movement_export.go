package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	ledgerapp "github.com/gestionale/backend/internal/application/ledger"
)

// Accountant exports use the conventions Italian accounting software expects:
// semicolon-separated CSV, comma as the decimal separator and DD/MM/YYYY dates.

var movementHeader = []string{"Date", "Type", "Description", "Net", "VAT", "Withholding", "Total", "Notes"}

// CSVExporter writes ledger movements as semicolon-separated CSV
type CSVExporter struct{}

// NewCSVExporter creates a CSV exporter
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Write writes the movements to w, header first
func (e *CSVExporter) Write(w io.Writer, movements []ledgerapp.MovementResponse) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(movementHeader); err != nil {
		return err
	}
	for i := range movements {
		if err := cw.Write(movementRecord(&movements[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ContentType returns the MIME type for CSV downloads
func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

// FileName returns the download file name for the given year
func (e *CSVExporter) FileName(year int) string {
	return fmt.Sprintf("movements_%d.csv", year)
}

// ExcelExporter writes ledger movements as an xlsx workbook
type ExcelExporter struct{}

// NewExcelExporter creates an Excel exporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Write writes the movements to w as a single-sheet workbook
func (e *ExcelExporter) Write(w io.Writer, movements []ledgerapp.MovementResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Movements"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for col, title := range movementHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i := range movements {
		record := movementRecord(&movements[i])
		for col, value := range record {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "H", 16); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

// ContentType returns the MIME type for xlsx downloads
func (e *ExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileName returns the download file name for the given year
func (e *ExcelExporter) FileName(year int) string {
	return fmt.Sprintf("movements_%d.xlsx", year)
}

func movementRecord(m *ledgerapp.MovementResponse) []string {
	return []string{
		m.Date.Format("02/01/2006"),
		m.Type,
		m.Description,
		italianAmount(m.AmountNet),
		italianAmount(m.AmountVAT),
		italianAmount(m.AmountWithholding),
		italianAmount(m.AmountTotal),
		m.Notes,
	}
}

func italianAmount(amount string) string {
	return strings.ReplaceAll(amount, ".", ",")
}
