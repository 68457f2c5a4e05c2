package dto

import "github.com/acadsync/gradebook-api/internal/models"

// ScheduleRequest is the schedule descriptor printed on the exported sheet.
type ScheduleRequest struct {
	Day         string `json:"day" validate:"required"`
	Time        string `json:"time" validate:"required"`
	Room        string `json:"room" validate:"required"`
	Chairperson string `json:"chairperson,omitempty"`
	Dean        string `json:"dean,omitempty"`
}

// ExportSheetRequest captures POST /sections/:id/export-sheet.
type ExportSheetRequest struct {
	SectionID string               `json:"-" validate:"required"`
	Kind      models.ExportKind    `json:"kind" validate:"required,oneof=termly final-grade"`
	Term      *models.AcademicTerm `json:"term,omitempty" validate:"omitempty,oneof=MIDTERM FINALTERM"`
	Schedule  ScheduleRequest      `json:"schedule" validate:"required"`
}

// ExportSheetResponse reports a finished export run.
type ExportSheetResponse struct {
	Success         bool     `json:"success"`
	DocumentURL     string   `json:"document_url"`
	DocumentTitle   string   `json:"document_title"`
	SheetTitle      string   `json:"sheet_title"`
	ReusedExisting  bool     `json:"reused_existing"`
	UsedFallbackHub bool     `json:"used_fallback_hub"`
	Warnings        []string `json:"warnings"`
}

// StudentGrade pairs a roster entry with its computed grade, if any.
type StudentGrade struct {
	Student models.Student        `json:"student"`
	Grade   *models.ComputedGrade `json:"grade,omitempty"`
}

// SectionGradesResponse is the computed grade summary of one section.
type SectionGradesResponse struct {
	SectionID string         `json:"section_id"`
	Grades    []StudentGrade `json:"grades"`
}
