package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadsync/gradebook-api/internal/models"
)

func TestGridBuilderBuildsConsistentGrid(t *testing.T) {
	b := NewGridBuilder(4)
	b.AppendBannerRow("UNIVERSITY")
	b.AppendExactRow([]string{"No.", "Name", "Quiz", "Total"})
	b.MarkCategory(2, 2, models.CategoryClassStanding)
	b.EndHeader()
	b.AppendRow("1", "Student A", "9")

	content, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 4, content.ColumnCount)
	assert.Equal(t, 2, content.HeaderRows)
	require.Len(t, content.Rows, 3)
	// Short rows are padded to the full width.
	assert.Equal(t, []string{"1", "Student A", "9", ""}, content.Rows[2])
	require.Len(t, content.HeaderSpans, 1)
	assert.Equal(t, 0, content.HeaderSpans[0].StartCol)
	assert.Equal(t, 3, content.HeaderSpans[0].EndCol)
	require.Len(t, content.ColorRanges, 1)
	assert.Equal(t, models.CategoryClassStanding, content.ColorRanges[0].Category)
}

func TestGridBuilderRejectsOverflowingRow(t *testing.T) {
	b := NewGridBuilder(2)
	b.AppendRow("a", "b", "c")

	_, err := b.Build()
	assert.Error(t, err)
}

func TestGridBuilderRejectsInexactRow(t *testing.T) {
	b := NewGridBuilder(3)
	b.AppendExactRow([]string{"a", "b"})

	_, err := b.Build()
	assert.Error(t, err)
}

func TestGridBuilderRejectsOutOfBoundsSpan(t *testing.T) {
	b := NewGridBuilder(3)
	b.AppendRow("a")
	b.Span(1, 3, "too wide")

	_, err := b.Build()
	assert.Error(t, err)
}

func TestGridBuilderRejectsZeroColumns(t *testing.T) {
	_, err := NewGridBuilder(0).Build()
	assert.Error(t, err)
}
