package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	grid := Grid{
		Title:      "MIDTERM GRADE SHEET",
		HeaderRows: 1,
		Rows: [][]string{
			{"No.", "Student Name", "Quiz 1"},
			{"1", "Abad, Maria", "9"},
			{"2", "Bautista, Jose", ""},
		},
	}

	payload, err := NewCSVExporter().Render(grid)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(payload), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, "No.,Student Name,Quiz 1", string(lines[0]))
	assert.Equal(t, `1,"Abad, Maria",9`, string(lines[1]))
	// Unrecorded scores stay empty fields.
	assert.Equal(t, `2,"Bautista, Jose",`, string(lines[2]))
}

func TestCSVExporterRejectsEmptyGrid(t *testing.T) {
	_, err := NewCSVExporter().Render(Grid{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	grid := Grid{
		Title:      "FINAL GRADE SHEET",
		HeaderRows: 1,
		Rows: [][]string{
			{"No.", "Student Name", "FINAL GRADE"},
			{"1", "Abad, Maria", "1.25"},
		},
	}

	payload, err := NewPDFExporter().Render(grid)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")), "pdf output starts with the magic header")
}

func TestPDFExporterRejectsEmptyGrid(t *testing.T) {
	_, err := NewPDFExporter().Render(Grid{})
	assert.Error(t, err)
}
