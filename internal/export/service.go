// Package export renders a batch of canonical records as a spreadsheet:
// XLSX by default, semicolon-separated CSV as the portable fallback.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"invoicepipe/internal/entity"
)

// Column order is fixed: identification and party fields first, amounts and
// method next, everything else after.
var headers = []string{
	"Nome File",
	"Data",
	"Numero",
	"Fornitore",
	"Cliente",
	"Indirizzo",
	"Totale",
	"Imponibile",
	"IVA",
	"Metodo",
	"Valuta",
	"Compensi",
	"Spese generali",
	"Voci",
}

// Service produces export bytes from reconciled records.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

func row(r entity.CanonicalRecord) []string {
	return []string{
		r.FileName,
		r.InvoiceDateDisplay,
		r.InvoiceNumber,
		r.Supplier,
		r.Customer,
		r.CustomerAddress,
		r.TotalDisplay,
		r.TaxableBaseDisplay,
		r.VATRate,
		string(r.Method),
		r.Currency,
		r.Fees,
		r.GeneralExpenses,
		strings.Join(r.LineItems, "; "),
	}
}

// WriteXLSX returns an XLSX workbook with one row per document.
func (s *Service) WriteXLSX(records []entity.CanonicalRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Dati"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defaultIndex, _ := f.GetSheetIndex("Sheet1"); defaultIndex != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, rec := range records {
		for colIdx, v := range row(rec) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// widen the name and address columns
	_ = f.SetColWidth(sheet, "A", "C", 15)
	_ = f.SetColWidth(sheet, "D", "F", 30)
	_ = f.SetColWidth(sheet, "G", "I", 14)
	_ = f.SetColWidth(sheet, "N", "N", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteCSV returns a semicolon-separated CSV with a UTF-8 BOM, which keeps
// accented characters intact when the file lands in a spreadsheet program.
func (s *Service) WriteCSV(records []entity.CanonicalRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if err := w.Write(row(rec)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	s.logger.Info("export.csv.ok", "rows", len(records))
	return buf.Bytes(), nil
}
