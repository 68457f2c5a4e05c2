package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Grid is a fully laid-out sheet ready for local rendering. Rows are uniform
// in width; HeaderRows counts the leading non-student rows.
type Grid struct {
	Title      string
	Rows       [][]string
	HeaderRows int
}

// CSVExporter renders a grid into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the grid.
func (e *CSVExporter) Render(grid Grid) ([]byte, error) {
	if len(grid.Rows) == 0 {
		return nil, fmt.Errorf("csv requires at least one row")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	for _, row := range grid.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
