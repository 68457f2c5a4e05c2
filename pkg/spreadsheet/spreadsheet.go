// Package spreadsheet abstracts the external spreadsheet document service the
// export engine writes grade sheets to. Any compatible backend can implement
// Service; the repository ships an excelize-backed local store.
package spreadsheet

import (
	"context"
	"errors"
)

// Typed failures the resolver state machine distinguishes. Backends must
// return (or wrap) these so callers can pick the right recovery path.
var (
	// ErrDuplicateTitle signals a document or sheet title collision.
	ErrDuplicateTitle = errors.New("spreadsheet: duplicate title")
	// ErrNotFound signals the document or sheet no longer exists.
	ErrNotFound = errors.New("spreadsheet: not found")
	// ErrUnauthorized signals the backend denied the operation.
	ErrUnauthorized = errors.New("spreadsheet: unauthorized")
)

// DocumentInfo describes a created or resolved document.
type DocumentInfo struct {
	DocumentID string
	SheetID    int64
	SheetTitle string
	Title      string
	URL        string
}

// SheetInfo describes one tab within a document.
type SheetInfo struct {
	SheetID int64
	Title   string
}

// ColorBand paints a column interval of the header block.
type ColorBand struct {
	StartCol int
	EndCol   int
	// Color is a hex RGB string such as "FFD966".
	Color string
}

// Layout carries the structural facts cosmetic formatting needs. It is
// computed by the content synthesizer, never by the spreadsheet layer.
type Layout struct {
	ColumnCount int
	HeaderRows  int
	RowCount    int
	ColorBands  []ColorBand
}

// Service is the full surface the export engine consumes. Creation, lookup,
// clearing and grid writes are load-bearing; formatting, folder placement and
// sharing are cosmetic and callers treat their failures as warnings.
type Service interface {
	CreateDocument(ctx context.Context, title string) (*DocumentInfo, error)
	GetDocumentSheets(ctx context.Context, documentID string) ([]SheetInfo, error)
	AddSheet(ctx context.Context, documentID, title string) (*SheetInfo, error)
	RenameSheet(ctx context.Context, documentID string, sheetID int64, title string) error
	WriteGrid(ctx context.Context, documentID, sheetTitle string, rows [][]string) error
	ClearSheet(ctx context.Context, documentID, sheetTitle string) error
	ResetFormatting(ctx context.Context, documentID string, sheetID int64) error
	ApplyFormatting(ctx context.Context, documentID string, sheetID int64, layout Layout) error
	MoveToFolder(ctx context.Context, documentID, folderID string) error
	ShareWithUser(ctx context.Context, documentID, email string) error
	SetPublicAccess(ctx context.Context, documentID string) error
	DocumentURL(documentID string) string
}
