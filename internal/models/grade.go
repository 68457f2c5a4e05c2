package models

import "time"

// Remark is the pass/fail verdict attached to a final grade.
type Remark string

const (
	RemarkPassed Remark = "PASSED"
	RemarkFailed Remark = "FAILED"
	// RemarkIncomplete is emitted when only one term has data; the course is
	// not finished, so the student has not failed yet.
	RemarkIncomplete Remark = "INCOMPLETE"
)

// CategoryResult is the outcome of aggregating one grading category.
// Absent means the category had no activities in scope, which downstream
// weight redistribution must treat differently from a computed 0%.
type CategoryResult struct {
	Percent float64
	Absent  bool
}

// AbsentCategory marks a category with no activities.
func AbsentCategory() CategoryResult {
	return CategoryResult{Absent: true}
}

// PresentCategory wraps a computed percentage.
func PresentCategory(percent float64) CategoryResult {
	return CategoryResult{Percent: percent}
}

// ComputedGrade is the derived grade record upserted per student per section
// on every export. Fields are nil when the underlying components are absent;
// a component that exists is never partially written.
type ComputedGrade struct {
	ID        string `db:"id" json:"id"`
	StudentID string `db:"student_id" json:"student_id"`
	SectionID string `db:"section_id" json:"section_id"`

	MidtermClassStanding *float64 `db:"mid_class_standing" json:"midterm_class_standing,omitempty"`
	MidtermLaboratory    *float64 `db:"mid_laboratory" json:"midterm_laboratory,omitempty"`
	MidtermMajorOutput   *float64 `db:"mid_major_output" json:"midterm_major_output,omitempty"`
	MidtermPercent       *float64 `db:"mid_percent" json:"midterm_percent,omitempty"`
	MidtermEquivalent    *float64 `db:"mid_equivalent" json:"midterm_equivalent,omitempty"`

	FinaltermClassStanding *float64 `db:"fin_class_standing" json:"finalterm_class_standing,omitempty"`
	FinaltermLaboratory    *float64 `db:"fin_laboratory" json:"finalterm_laboratory,omitempty"`
	FinaltermMajorOutput   *float64 `db:"fin_major_output" json:"finalterm_major_output,omitempty"`
	FinaltermPercent       *float64 `db:"fin_percent" json:"finalterm_percent,omitempty"`
	FinaltermEquivalent    *float64 `db:"fin_equivalent" json:"finalterm_equivalent,omitempty"`

	FinalGradePoint *float64 `db:"final_grade_point" json:"final_grade_point,omitempty"`
	Remarks         *Remark  `db:"remarks" json:"remarks,omitempty"`

	ComputedAt time.Time `db:"computed_at" json:"computed_at"`
}

// TermPercent returns the stored blended percentage for a term.
func (g *ComputedGrade) TermPercent(term AcademicTerm) *float64 {
	if term == TermMidterm {
		return g.MidtermPercent
	}
	return g.FinaltermPercent
}
