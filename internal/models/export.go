package models

import "time"

// ExportKind distinguishes the two grade-sheet layouts a section may export.
type ExportKind string

const (
	// ExportKindTermly exports a single term with per-category summary columns.
	ExportKindTermly ExportKind = "termly"
	// ExportKindFinalGrade exports the combined midterm/finalterm sheet.
	ExportKindFinalGrade ExportKind = "final-grade"
)

// Valid reports whether the kind is one of the known layouts.
func (k ExportKind) Valid() bool {
	return k == ExportKindTermly || k == ExportKindFinalGrade
}

// ExportResourceHandle stores the external spreadsheet location a section
// exported to, so later exports can reuse the same document. Mutated only
// after a successful write; stale handles are revalidated on each attempt.
type ExportResourceHandle struct {
	ID              string     `db:"id" json:"id"`
	SectionID       string     `db:"section_id" json:"section_id"`
	Kind            ExportKind `db:"kind" json:"kind"`
	DocumentID      string     `db:"document_id" json:"document_id"`
	SheetID         int64      `db:"sheet_id" json:"sheet_id"`
	SheetTitle      string     `db:"sheet_title" json:"sheet_title"`
	DocumentTitle   string     `db:"document_title" json:"document_title"`
	DocumentURL     string     `db:"document_url" json:"document_url"`
	UsedFallbackHub bool       `db:"used_fallback_hub" json:"used_fallback_hub"`
	LastExportedAt  time.Time  `db:"last_exported_at" json:"last_exported_at"`
}
