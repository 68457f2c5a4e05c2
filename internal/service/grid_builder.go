package service

import (
	"fmt"

	"github.com/acadsync/gradebook-api/internal/models"
)

// GridBuilder assembles a sheet grid from named blocks and validates that
// every row carries the same number of columns, so header/data mismatches
// surface at construction time instead of at render time.
type GridBuilder struct {
	columnCount int
	rows        [][]string
	spans       []models.HeaderSpan
	colors      []models.ColorRange
	headerRows  int
	errs        []error
}

// NewGridBuilder creates a builder for a grid of the given width.
func NewGridBuilder(columnCount int) *GridBuilder {
	b := &GridBuilder{columnCount: columnCount}
	if columnCount <= 0 {
		b.errs = append(b.errs, fmt.Errorf("grid requires at least one column, got %d", columnCount))
	}
	return b
}

// AppendBannerRow appends a row whose first cell spans the full grid width.
func (b *GridBuilder) AppendBannerRow(label string) *GridBuilder {
	row := make([]string, b.columnCount)
	if b.columnCount > 0 {
		row[0] = label
	}
	b.spans = append(b.spans, models.HeaderSpan{Row: len(b.rows), StartCol: 0, EndCol: b.columnCount - 1, Label: label})
	b.rows = append(b.rows, row)
	return b
}

// AppendRow appends a fully populated row. Rows shorter than the grid width
// are padded with blank cells; rows wider than the grid are an error.
func (b *GridBuilder) AppendRow(cells ...string) *GridBuilder {
	if len(cells) > b.columnCount {
		b.errs = append(b.errs, fmt.Errorf("row %d has %d cells, grid is %d columns wide", len(b.rows), len(cells), b.columnCount))
		return b
	}
	row := make([]string, b.columnCount)
	copy(row, cells)
	b.rows = append(b.rows, row)
	return b
}

// AppendExactRow appends a row that must match the grid width exactly.
func (b *GridBuilder) AppendExactRow(cells []string) *GridBuilder {
	if len(cells) != b.columnCount {
		b.errs = append(b.errs, fmt.Errorf("row %d has %d cells, expected exactly %d", len(b.rows), len(cells), b.columnCount))
		return b
	}
	b.rows = append(b.rows, append([]string(nil), cells...))
	return b
}

// Span records a merged-cell range on the most recently appended row.
func (b *GridBuilder) Span(startCol, endCol int, label string) *GridBuilder {
	if startCol < 0 || endCol >= b.columnCount || startCol > endCol {
		b.errs = append(b.errs, fmt.Errorf("span [%d,%d] out of bounds for %d columns", startCol, endCol, b.columnCount))
		return b
	}
	b.spans = append(b.spans, models.HeaderSpan{Row: len(b.rows) - 1, StartCol: startCol, EndCol: endCol, Label: label})
	return b
}

// MarkCategory tags a column interval with its grading category.
func (b *GridBuilder) MarkCategory(startCol, endCol int, category models.GradingCategory) *GridBuilder {
	if startCol < 0 || endCol >= b.columnCount || startCol > endCol {
		b.errs = append(b.errs, fmt.Errorf("color range [%d,%d] out of bounds for %d columns", startCol, endCol, b.columnCount))
		return b
	}
	b.colors = append(b.colors, models.ColorRange{StartCol: startCol, EndCol: endCol, Category: category})
	return b
}

// EndHeader marks every row appended so far as header content.
func (b *GridBuilder) EndHeader() *GridBuilder {
	b.headerRows = len(b.rows)
	return b
}

// Build validates the accumulated grid and returns the sheet content.
func (b *GridBuilder) Build() (*models.SheetContent, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("inconsistent grid: %v", b.errs[0])
	}
	return &models.SheetContent{
		Rows:        b.rows,
		HeaderSpans: b.spans,
		ColorRanges: b.colors,
		ColumnCount: b.columnCount,
		HeaderRows:  b.headerRows,
	}, nil
}
