package spreadsheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const defaultSheetName = "Sheet1"

// LocalStore implements Service on top of xlsx workbooks stored under a
// directory. Each document is a workbook plus a JSON sidecar holding the
// title, folder placement and sharing metadata. Sheet ids are tab positions.
type LocalStore struct {
	dir string
}

// NewLocalStore prepares the storage directory and returns the store.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("spreadsheet storage dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, mapFSError(err)
	}
	return &LocalStore{dir: dir}, nil
}

type docMeta struct {
	Title      string    `json:"title"`
	Folder     string    `json:"folder,omitempty"`
	SharedWith []string  `json:"shared_with,omitempty"`
	Public     bool      `json:"public"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *LocalStore) workbookPath(documentID string) string {
	return filepath.Join(s.dir, documentID+".xlsx")
}

func (s *LocalStore) metaPath(documentID string) string {
	return filepath.Join(s.dir, documentID+".json")
}

// CreateDocument creates a new workbook with a single default sheet. Titles
// must be unique within the store; collisions return ErrDuplicateTitle so the
// caller can advance to its next title candidate.
func (s *LocalStore) CreateDocument(ctx context.Context, title string) (*DocumentInfo, error) {
	taken, err := s.titleTaken(title)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("document %q: %w", title, ErrDuplicateTitle)
	}

	id := uuid.NewString()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SaveAs(s.workbookPath(id)); err != nil {
		return nil, mapFSError(err)
	}
	now := time.Now().UTC()
	if err := s.writeMeta(id, docMeta{Title: title, CreatedAt: now, UpdatedAt: now}); err != nil {
		_ = os.Remove(s.workbookPath(id))
		return nil, err
	}

	return &DocumentInfo{
		DocumentID: id,
		SheetID:    0,
		SheetTitle: defaultSheetName,
		Title:      title,
		URL:        s.DocumentURL(id),
	}, nil
}

// GetDocumentSheets lists the tabs of a document in position order.
func (s *LocalStore) GetDocumentSheets(ctx context.Context, documentID string) ([]SheetInfo, error) {
	f, err := s.open(documentID)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	list := f.GetSheetList()
	sheets := make([]SheetInfo, 0, len(list))
	for i, name := range list {
		sheets = append(sheets, SheetInfo{SheetID: int64(i), Title: name})
	}
	return sheets, nil
}

// AddSheet appends a new tab. Tab titles are unique within a workbook.
func (s *LocalStore) AddSheet(ctx context.Context, documentID, title string) (*SheetInfo, error) {
	f, err := s.open(documentID)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(title); err == nil && idx >= 0 {
		return nil, fmt.Errorf("sheet %q: %w", title, ErrDuplicateTitle)
	}
	idx, err := f.NewSheet(title)
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	if err := f.Save(); err != nil {
		return nil, mapFSError(err)
	}
	return &SheetInfo{SheetID: int64(idx), Title: title}, nil
}

// RenameSheet renames the tab at the given position.
func (s *LocalStore) RenameSheet(ctx context.Context, documentID string, sheetID int64, title string) error {
	f, err := s.open(documentID)
	if err != nil {
		return err
	}
	defer f.Close()

	list := f.GetSheetList()
	if sheetID < 0 || int(sheetID) >= len(list) {
		return fmt.Errorf("sheet %d: %w", sheetID, ErrNotFound)
	}
	current := list[sheetID]
	if current == title {
		return nil
	}
	if idx, err := f.GetSheetIndex(title); err == nil && idx >= 0 {
		return fmt.Errorf("sheet %q: %w", title, ErrDuplicateTitle)
	}
	if err := f.SetSheetName(current, title); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.Save(); err != nil {
		return mapFSError(err)
	}
	return nil
}

// WriteGrid writes the whole grid in one pass starting at A1.
func (s *LocalStore) WriteGrid(ctx context.Context, documentID, sheetTitle string, rows [][]string) error {
	f, err := s.open(documentID)
	if err != nil {
		return err
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheetTitle); err != nil || idx < 0 {
		return fmt.Errorf("sheet %q: %w", sheetTitle, ErrNotFound)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("write grid: %w", err)
		}
		cells := make([]interface{}, len(row))
		for j, value := range row {
			cells[j] = value
		}
		if err := f.SetSheetRow(sheetTitle, cell, &cells); err != nil {
			return fmt.Errorf("write grid row %d: %w", i+1, err)
		}
	}
	if err := f.Save(); err != nil {
		return mapFSError(err)
	}
	return nil
}

// ClearSheet blanks every populated cell of a tab.
func (s *LocalStore) ClearSheet(ctx context.Context, documentID, sheetTitle string) error {
	f, err := s.open(documentID)
	if err != nil {
		return err
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheetTitle); err != nil || idx < 0 {
		return fmt.Errorf("sheet %q: %w", sheetTitle, ErrNotFound)
	}
	rows, err := f.GetRows(sheetTitle)
	if err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}
	for i, row := range rows {
		for j := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("clear sheet: %w", err)
			}
			if err := f.SetCellStr(sheetTitle, cell, ""); err != nil {
				return fmt.Errorf("clear sheet: %w", err)
			}
		}
	}
	if err := f.Save(); err != nil {
		return mapFSError(err)
	}
	return nil
}

// ResetFormatting restores the default style over the used range of a tab.
func (s *LocalStore) ResetFormatting(ctx context.Context, documentID string, sheetID int64) error {
	f, err := s.open(documentID)
	if err != nil {
		return err
	}
	defer f.Close()

	list := f.GetSheetList()
	if sheetID < 0 || int(sheetID) >= len(list) {
		return fmt.Errorf("sheet %d: %w", sheetID, ErrNotFound)
	}
	sheet := list[sheetID]
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("reset formatting: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(width, len(rows))
	if err != nil {
		return fmt.Errorf("reset formatting: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, 0); err != nil {
		return fmt.Errorf("reset formatting: %w", err)
	}
	if err := f.Save(); err != nil {
		return mapFSError(err)
	}
	return nil
}

// ApplyFormatting paints the category color bands over the header rows and
// draws a thin border around the populated grid.
func (s *LocalStore) ApplyFormatting(ctx context.Context, documentID string, sheetID int64, layout Layout) error {
	f, err := s.open(documentID)
	if err != nil {
		return err
	}
	defer f.Close()

	list := f.GetSheetList()
	if sheetID < 0 || int(sheetID) >= len(list) {
		return fmt.Errorf("sheet %d: %w", sheetID, ErrNotFound)
	}
	sheet := list[sheetID]

	if layout.RowCount > 0 && layout.ColumnCount > 0 {
		borderStyle, err := f.NewStyle(&excelize.Style{
			Border: []excelize.Border{
				{Type: "left", Style: 1, Color: "000000"},
				{Type: "right", Style: 1, Color: "000000"},
				{Type: "top", Style: 1, Color: "000000"},
				{Type: "bottom", Style: 1, Color: "000000"},
			},
		})
		if err != nil {
			return fmt.Errorf("apply formatting: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(layout.ColumnCount, layout.RowCount)
		if err != nil {
			return fmt.Errorf("apply formatting: %w", err)
		}
		if err := f.SetCellStyle(sheet, "A1", last, borderStyle); err != nil {
			return fmt.Errorf("apply formatting: %w", err)
		}
	}

	for _, band := range layout.ColorBands {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{band.Color}},
			Border: []excelize.Border{
				{Type: "left", Style: 1, Color: "000000"},
				{Type: "right", Style: 1, Color: "000000"},
				{Type: "top", Style: 1, Color: "000000"},
				{Type: "bottom", Style: 1, Color: "000000"},
			},
		})
		if err != nil {
			return fmt.Errorf("apply formatting: %w", err)
		}
		start, err := excelize.CoordinatesToCellName(band.StartCol+1, 1)
		if err != nil {
			return fmt.Errorf("apply formatting: %w", err)
		}
		end, err := excelize.CoordinatesToCellName(band.EndCol+1, maxInt(layout.HeaderRows, 1))
		if err != nil {
			return fmt.Errorf("apply formatting: %w", err)
		}
		if err := f.SetCellStyle(sheet, start, end, style); err != nil {
			return fmt.Errorf("apply formatting: %w", err)
		}
	}
	if err := f.Save(); err != nil {
		return mapFSError(err)
	}
	return nil
}

// MoveToFolder records the folder placement in the document sidecar.
func (s *LocalStore) MoveToFolder(ctx context.Context, documentID, folderID string) error {
	return s.updateMeta(documentID, func(meta *docMeta) {
		meta.Folder = folderID
	})
}

// ShareWithUser records read access for an account.
func (s *LocalStore) ShareWithUser(ctx context.Context, documentID, email string) error {
	return s.updateMeta(documentID, func(meta *docMeta) {
		for _, existing := range meta.SharedWith {
			if strings.EqualFold(existing, email) {
				return
			}
		}
		meta.SharedWith = append(meta.SharedWith, email)
	})
}

// SetPublicAccess marks the document readable by anyone with the link.
func (s *LocalStore) SetPublicAccess(ctx context.Context, documentID string) error {
	return s.updateMeta(documentID, func(meta *docMeta) {
		meta.Public = true
	})
}

// DocumentURL builds the stable link for a stored document.
func (s *LocalStore) DocumentURL(documentID string) string {
	return fmt.Sprintf("local://spreadsheets/%s", documentID)
}

func (s *LocalStore) open(documentID string) (*excelize.File, error) {
	if documentID == "" {
		return nil, fmt.Errorf("document id required: %w", ErrNotFound)
	}
	f, err := excelize.OpenFile(s.workbookPath(documentID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("document %s: %w", documentID, ErrNotFound)
		}
		return nil, mapFSError(err)
	}
	return f, nil
}

func (s *LocalStore) titleTaken(title string) (bool, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return false, mapFSError(err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		meta, err := s.readMeta(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		if meta.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (s *LocalStore) readMeta(documentID string) (*docMeta, error) {
	raw, err := os.ReadFile(s.metaPath(documentID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("document %s: %w", documentID, ErrNotFound)
		}
		return nil, mapFSError(err)
	}
	var meta docMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("decode document metadata: %w", err)
	}
	return &meta, nil
}

func (s *LocalStore) writeMeta(documentID string, meta docMeta) error {
	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document metadata: %w", err)
	}
	if err := os.WriteFile(s.metaPath(documentID), raw, 0o644); err != nil {
		return mapFSError(err)
	}
	return nil
}

func (s *LocalStore) updateMeta(documentID string, apply func(*docMeta)) error {
	meta, err := s.readMeta(documentID)
	if err != nil {
		return err
	}
	apply(meta)
	meta.UpdatedAt = time.Now().UTC()
	return s.writeMeta(documentID, *meta)
}

func mapFSError(err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%v: %w", err, ErrUnauthorized)
	}
	return err
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
