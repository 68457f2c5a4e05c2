package models

import "time"

// Student is a member of a section roster.
type Student struct {
	ID        string `db:"id" json:"id"`
	StudentNo string `db:"student_no" json:"student_no"`
	FullName  string `db:"full_name" json:"full_name"`
}

// GradingSchema holds the per-section percentage weights of the three grading
// categories. The weights sum to 100; Laboratory may legitimately be zero.
type GradingSchema struct {
	ClassStanding float64 `db:"ws_class_standing" json:"class_standing"`
	Laboratory    float64 `db:"ws_laboratory" json:"laboratory"`
	MajorOutput   float64 `db:"ws_major_output" json:"major_output"`
}

// Weight returns the configured weight for a category.
func (s GradingSchema) Weight(category GradingCategory) float64 {
	switch category {
	case CategoryClassStanding:
		return s.ClassStanding
	case CategoryLaboratory:
		return s.Laboratory
	case CategoryMajorOutput:
		return s.MajorOutput
	}
	return 0
}

// Section is one class offering of a subject for a school year.
type Section struct {
	ID           string                               `db:"id" json:"id"`
	Code         string                               `db:"code" json:"code"`
	SubjectID    string                               `db:"subject_id" json:"subject_id"`
	SubjectCode  string                               `db:"subject_code" json:"subject_code"`
	SubjectTitle string                               `db:"subject_title" json:"subject_title"`
	SchoolYear   string                               `db:"school_year" json:"school_year"`
	InstructorID string                               `db:"instructor_id" json:"instructor_id"`
	Instructor   string                               `db:"instructor_name" json:"instructor_name"`
	GradingSchema `json:"grading_schema"`
	ScheduleInfo  `json:"schedule"`
	Students     []Student                            `json:"students,omitempty"`
	Handles      map[ExportKind]*ExportResourceHandle `json:"export_handles,omitempty"`
	CreatedAt    time.Time                            `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time                            `db:"updated_at" json:"updated_at"`
}

// Handle returns the stored export handle for the given kind, or nil.
func (s *Section) Handle(kind ExportKind) *ExportResourceHandle {
	if s == nil || s.Handles == nil {
		return nil
	}
	return s.Handles[kind]
}

// ScheduleInfo is the schedule descriptor printed on an exported grade sheet.
type ScheduleInfo struct {
	Day         string `db:"sched_day" json:"day"`
	Time        string `db:"sched_time" json:"time"`
	Room        string `db:"sched_room" json:"room"`
	Chairperson string `db:"chairperson" json:"chairperson,omitempty"`
	Dean        string `db:"dean" json:"dean,omitempty"`
}
