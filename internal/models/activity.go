package models

import "time"

// GradingCategory identifies a weighted grading component.
type GradingCategory string

const (
	// CategoryClassStanding covers quizzes, recitations and seatwork.
	CategoryClassStanding GradingCategory = "CLASS_STANDING"
	// CategoryLaboratory covers laboratory exercises; weight may be zero for lecture-only subjects.
	CategoryLaboratory GradingCategory = "LABORATORY"
	// CategoryMajorOutput covers major examinations and capstone outputs.
	CategoryMajorOutput GradingCategory = "MAJOR_OUTPUT"
)

// Categories lists the grading categories in presentation order.
var Categories = []GradingCategory{CategoryClassStanding, CategoryLaboratory, CategoryMajorOutput}

// AcademicTerm identifies one of the two grading periods.
type AcademicTerm string

const (
	TermMidterm   AcademicTerm = "MIDTERM"
	TermFinalterm AcademicTerm = "FINALTERM"
)

// Activity is a scoreable item created by an instructor. Immutable once scored.
type Activity struct {
	ID         string          `db:"id" json:"id"`
	SubjectID  string          `db:"subject_id" json:"subject_id"`
	SchoolYear string          `db:"school_year" json:"school_year"`
	Category   GradingCategory `db:"category" json:"category"`
	Term       AcademicTerm    `db:"term" json:"term"`
	Title      string          `db:"title" json:"title"`
	MaxScore   float64         `db:"max_score" json:"max_score"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// ActivityScore is a recorded score for one student on one activity.
// Absence of a row means "not yet recorded", which is distinct from a recorded zero.
type ActivityScore struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	ActivityID string    `db:"activity_id" json:"activity_id"`
	Score      float64   `db:"score" json:"score"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}

// ActivityFilter scopes activity lookups for a section's subject offering.
type ActivityFilter struct {
	SubjectID  string
	SchoolYear string
	Term       *AcademicTerm
}
