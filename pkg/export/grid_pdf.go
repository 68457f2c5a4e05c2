package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a grid into a printable landscape PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render draws the grid as a bordered table. Header rows are emphasised;
// rows whose first populated cell spans the page (banners, signature lines)
// are drawn without borders.
func (e *PDFExporter) Render(grid Grid) ([]byte, error) {
	if len(grid.Rows) == 0 {
		return nil, fmt.Errorf("pdf requires at least one row")
	}
	columnCount := len(grid.Rows[0])
	if columnCount == 0 {
		return nil, fmt.Errorf("pdf requires at least one column")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	if grid.Title != "" {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 9, strings.ToUpper(grid.Title), "", 1, "C", false, 0, "")
		pdf.Ln(2)
	}

	colWidth := 277.0 / float64(columnCount)
	for i, row := range grid.Rows {
		header := i < grid.HeaderRows
		if header {
			pdf.SetFont("Arial", "B", 8)
		} else {
			pdf.SetFont("Arial", "", 8)
		}
		if isBannerRow(row) {
			pdf.CellFormat(0, 6, row[0], "", 1, "L", false, 0, "")
			continue
		}
		for _, cell := range row {
			pdf.CellFormat(colWidth, 6, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// isBannerRow reports whether only the first cell is populated.
func isBannerRow(row []string) bool {
	if len(row) == 0 || row[0] == "" {
		return false
	}
	for _, cell := range row[1:] {
		if cell != "" {
			return false
		}
	}
	return true
}
